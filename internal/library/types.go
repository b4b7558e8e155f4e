package library

import (
	"fmt"
	"path/filepath"
)

const (
	TVShowsDir = "TV Shows"
	MoviesDir  = "Movies"
)

// MediaInfo is the classification of one video file.
type MediaInfo struct {
	Title        string `json:"title"`
	IsSeries     bool   `json:"is_series"`
	SeasonFolder string `json:"season_folder,omitempty"` // "Season NN", series only
	Year         string `json:"year,omitempty"`          // movies only
}

// TargetDir returns the library directory the video belongs in:
// <root>/TV Shows/<title>/<season folder> or <root>/Movies/<title> (<year>).
func (m MediaInfo) TargetDir(outputRoot string) string {
	if m.IsSeries {
		return filepath.Join(outputRoot, TVShowsDir, m.Title, m.SeasonFolder)
	}

	folder := m.Title
	if m.Year != "" {
		folder = fmt.Sprintf("%s (%s)", m.Title, m.Year)
	}
	return filepath.Join(outputRoot, MoviesDir, folder)
}

// FoundAssets are the sidecar files matched to one video. Order follows
// directory traversal and is not stable across platforms.
type FoundAssets struct {
	Subtitles []string `json:"subtitles"`
	Audios    []string `json:"audios"`
}

// All returns subtitles followed by audios.
func (a FoundAssets) All() []string {
	ret := make([]string, 0, len(a.Subtitles)+len(a.Audios))
	ret = append(ret, a.Subtitles...)
	return append(ret, a.Audios...)
}
