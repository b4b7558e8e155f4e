package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/MimeLyc/mkv-organizer/pkg/file"
)

// Scanner discovers the videos to organize under a root directory.
type Scanner struct {
	root      string
	videoExts []string
}

func NewScanner(root string, videoExts []string) *Scanner {
	return &Scanner{
		root:      root,
		videoExts: append([]string(nil), videoExts...),
	}
}

// Scan walks the root and returns every video path once, sorted.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", s.root)
	}

	found, err := file.FindByExt(s.root, s.videoExts)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range found {
		found[i] = filepath.Clean(found[i])
	}
	slices.Sort(found)
	return slices.Compact(found), nil
}
