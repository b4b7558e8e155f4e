package library

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/MimeLyc/mkv-organizer/pkg/file"
)

// sidecarDirs are the sub-directories of a video's folder that are searched
// in addition to the folder itself.
var sidecarDirs = []string{"Subs", "Subtitles"}

var episodeTagPattern = regexp.MustCompile(`(?i)s(\d{1,3})e(\d{1,4})`)

// Fingerprint projects s onto its lowercase ASCII alphanumeric characters.
func Fingerprint(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// ContainsEitherWay reports whether one fingerprint is a substring of the
// other. Empty fingerprints never match.
func ContainsEitherWay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// SameEpisodeTag reports whether both names carry an SxxEyy tag with equal
// season and episode numbers ("S01E02" equals "s1e2").
func SameEpisodeTag(a, b string) bool {
	sa, ea, ok := episodeTag(a)
	if !ok {
		return false
	}
	sb, eb, ok := episodeTag(b)
	if !ok {
		return false
	}
	return sa == sb && ea == eb
}

func episodeTag(name string) (season, episode int, ok bool) {
	m := episodeTagPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// AssetMatcher pairs subtitle and audio sidecars with a video.
type AssetMatcher struct {
	subtitleExts []string
	audioExts    []string
}

// NewAssetMatcher takes lowercased extension allow-lists with leading dots.
func NewAssetMatcher(subtitleExts, audioExts []string) *AssetMatcher {
	return &AssetMatcher{
		subtitleExts: append([]string(nil), subtitleExts...),
		audioExts:    append([]string(nil), audioExts...),
	}
}

// FindAssets scans the video's directory and its Subs/Subtitles children.
// A candidate matches when the fingerprints of the two stems contain one
// another, or when both names carry the same SxxEyy tag. Results keep
// directory order, which is not guaranteed to be stable across platforms.
func (m *AssetMatcher) FindAssets(videoPath string) FoundAssets {
	var assets FoundAssets

	videoStem := file.Stem(videoPath)
	videoFP := Fingerprint(videoStem)
	if videoFP == "" {
		return assets
	}

	videoPath = filepath.Clean(videoPath)
	dir := filepath.Dir(videoPath)
	videoName := filepath.Base(videoPath)

	for _, searchDir := range m.searchDirs(dir) {
		entries, err := os.ReadDir(searchDir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(searchDir, entry.Name())
			if path == videoPath || !isRegularFile(path) {
				continue
			}

			isSub := file.HasExt(path, m.subtitleExts)
			isAudio := !isSub && file.HasExt(path, m.audioExts)
			if !isSub && !isAudio {
				continue
			}

			if !ContainsEitherWay(videoFP, Fingerprint(file.Stem(path))) &&
				!SameEpisodeTag(videoName, entry.Name()) {
				continue
			}

			if isSub {
				assets.Subtitles = append(assets.Subtitles, path)
			} else {
				assets.Audios = append(assets.Audios, path)
			}
		}
	}

	return assets
}

func (m *AssetMatcher) searchDirs(dir string) []string {
	dirs := []string{dir}
	for _, name := range sidecarDirs {
		sub := filepath.Join(dir, name)
		if info, err := os.Stat(sub); err == nil && info.IsDir() && !slices.Contains(dirs, sub) {
			dirs = append(dirs, sub)
		}
	}
	return dirs
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
