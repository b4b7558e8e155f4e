package media

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

// Placeholder metadata for audio sidecars.
const (
	DefaultAudioLanguage = "eng"
	DefaultAudioName     = "English"
)

// MKVMerge runs the mkvmerge executable.
type MKVMerge struct {
	path string
}

func NewMKVMerge(path string) *MKVMerge {
	return &MKVMerge{path: path}
}

func (m *MKVMerge) Path() string {
	return m.path
}

// LocateMuxer resolves the configured muxer. Paths containing a separator
// must exist as regular files; bare names are looked up on PATH.
func LocateMuxer(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("muxer path is empty")
	}

	if !strings.ContainsAny(path, `/\`) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("muxer %q not found on PATH: %w", path, err)
		}
		return resolved, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("muxer %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("muxer %s is a directory", path)
	}
	return path, nil
}

// Mux runs mkvmerge and waits for it. There is no timeout; a hung process
// holds the caller until it exits.
func (m *MKVMerge) Mux(req MuxRequest) error {
	args := m.buildArgs(req)
	log.Debug("Running %s %s", m.path, strings.Join(args, " "))

	cmd := exec.Command(m.path, args...)
	var stderr, stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			// mkvmerge prints its errors on stdout.
			diag = strings.TrimSpace(stdout.String())
		}
		return &ExitError{Code: exitErr.ExitCode(), Stderr: diag}
	}
	return &SpawnError{Path: m.path, Err: err}
}

// buildArgs renders the mkvmerge command line:
//
//	-o <output> <video>
//	  [--language 0:<iso> --track-name 0:<name> --default-track 0:<1|0> <subtitle>]...
//	  [--language 0:<iso> --track-name 0:<name> <audio>]...
func (m *MKVMerge) buildArgs(req MuxRequest) []string {
	args := []string{"-o", req.Output, req.Video}

	for _, sub := range req.Subtitles {
		isDefault := "0"
		if sub.Default {
			isDefault = "1"
		}
		args = append(args,
			"--language", "0:"+sub.Language,
			"--track-name", "0:"+sub.Name,
			"--default-track", "0:"+isDefault,
			sub.Path,
		)
	}

	for _, audio := range req.Audios {
		lang, name := audio.Language, audio.Name
		if lang == "" {
			lang = DefaultAudioLanguage
		}
		if name == "" {
			name = DefaultAudioName
		}
		args = append(args,
			"--language", "0:"+lang,
			"--track-name", "0:"+name,
			audio.Path,
		)
	}

	return args
}
