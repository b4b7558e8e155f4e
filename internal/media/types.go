package media

import (
	"fmt"
	"strings"
)

// SubtitleTrack is an external subtitle file with its resolved language.
type SubtitleTrack struct {
	Path     string
	Language string // ISO 639-2
	Name     string
	Default  bool
}

// AudioTrack is an external audio file. Language and name are placeholders;
// audio sidecars are not analysed.
type AudioTrack struct {
	Path     string
	Language string
	Name     string
}

// MuxRequest describes one container to build.
type MuxRequest struct {
	Video     string
	Subtitles []SubtitleTrack
	Audios    []AudioTrack
	Output    string
}

// Muxer combines a video with its sidecar tracks into one container.
// Implementations block until the output is written or the attempt failed.
type Muxer interface {
	Mux(req MuxRequest) error
}

// MuxerFunc adapts a plain function to Muxer.
type MuxerFunc func(req MuxRequest) error

func (f MuxerFunc) Mux(req MuxRequest) error {
	return f(req)
}

// ExitError reports a muxer run that finished with a failing exit status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("muxer exited with status %d", e.Code)
	}
	return msg
}

// SpawnError reports a muxer that could not be started at all.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
