package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

type ErrorType int

const (
	ErrConfig ErrorType = iota
	ErrMissingTool
	ErrDirectoryCreate
	ErrSubprocessSpawn
	ErrMuxerExit
	ErrDeletion
	ErrUnknown
)

// OrgError is the error type returned by the organizer. Config and
// MissingTool errors abort a run; the others are scoped to one video.
type OrgError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *OrgError {
	return &OrgError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *OrgError {
	return &OrgError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *OrgError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *OrgError) Unwrap() error {
	return e.Cause
}

func (e *OrgError) WithContext(key string, value any) *OrgError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrConfig:
		return "Config"
	case ErrMissingTool:
		return "MissingTool"
	case ErrDirectoryCreate:
		return "DirectoryCreate"
	case ErrSubprocessSpawn:
		return "SubprocessSpawn"
	case ErrMuxerExit:
		return "MuxerExit"
	case ErrDeletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// Advice returns a short remediation hint for err.
func Advice(err error) string {
	var orgErr *OrgError
	if !errors.As(err, &orgErr) {
		return "Check the detailed error message"
	}

	switch orgErr.Type {
	case ErrConfig:
		return "Check config.toml and the MKVORG_* environment variables"
	case ErrMissingTool:
		return "Install MKVToolNix or point mkvmerge_path at the mkvmerge executable"
	case ErrDirectoryCreate:
		return "Ensure the output root exists and is writable"
	case ErrSubprocessSpawn:
		return "Ensure the mkvmerge executable is runnable by the current user"
	case ErrMuxerExit:
		return "Inspect the mkvmerge output; the source or a sidecar may be damaged"
	case ErrDeletion:
		return "Remove the leftover originals by hand"
	default:
		return "Check the detailed error message"
	}
}

// LogError logs err together with its advice.
func LogError(err error) {
	if err == nil {
		return
	}
	log.Error("%v (advice: %s)", err, Advice(err))
}

func IsErrorType(err error, errorType ErrorType) bool {
	var orgErr *OrgError
	if errors.As(err, &orgErr) {
		return orgErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *OrgError {
	return NewErrorWithCause(errorType, message, err)
}
