package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/mkv-organizer/internal/config"
	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().OutputRoot, cfg.OutputRoot)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`root_folder = "keep"`), 0o644))

	_, err := execute(t, "config", "init", "--config", path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `root_folder = "keep"`, string(data))

	_, err = execute(t, "config", "init", "--config", path, "--overwrite")
	require.NoError(t, err)
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`root_folder = "shown"`), 0o644))

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shown")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_sub_lang = "english"`), 0o644))

	_, err := execute(t, "run", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[Config]")
}

func TestRun_DryRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mock muxer scripts need a POSIX shell")
	}
	base := t.TempDir()

	muxer := filepath.Join(base, "mkvmerge")
	require.NoError(t, os.WriteFile(muxer, []byte("#!/bin/sh\nexit 1\n"), 0o755))

	root := filepath.Join(base, "in")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Movie.Title.2020.mkv"), nil, 0o644))

	output := filepath.Join(base, "out")
	cfg := config.Default()
	cfg.RootFolder = root
	cfg.OutputRoot = output
	cfg.MkvmergePath = muxer
	path := filepath.Join(base, "config.toml")
	require.NoError(t, config.WriteFile(path, cfg))

	out, err := execute(t, "--config", path, "--dry-run", "--jobs", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "PROCESSING COMPLETE (dry run)")
	assert.NoDirExists(t, output)
}

func TestRun_MissingMuxer(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.RootFolder = base
	cfg.MkvmergePath = filepath.Join(base, "missing", "mkvmerge")
	path := filepath.Join(base, "config.toml")
	require.NoError(t, config.WriteFile(path, cfg))

	_, err := execute(t, "run", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[MissingTool]")
}
