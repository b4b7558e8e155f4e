package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "warn 3")
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "error 4")
}

func TestLogger_RecordsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelDebug)
	l.SetOutput(&buf)

	l.Info("hello")

	assert.Contains(t, buf.String(), "[logger_test.go:")
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelError)
	l.SetOutput(&buf)

	l.Info("hidden")
	l.SetLevel(LevelDebug)
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGlobalLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	l := NewLogger(LevelInfo)
	l.SetOutput(&buf)
	SetLogger(l)

	Info("from %s", "package func")
	Debug("dropped")

	assert.Contains(t, buf.String(), "from package func")
	assert.Contains(t, buf.String(), "[logger_test.go:")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	fl, err := NewFileLogger(path, LevelInfo)
	require.NoError(t, err)
	fl.Info("written to file")
	require.NoError(t, fl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file"))
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "FATAL", LevelFatal.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
