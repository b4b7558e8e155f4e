package library

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MimeLyc/mkv-organizer/pkg/file"
)

const unknownTitle = "Unknown"

// ClassifyRule pairs a pattern with the extraction applied when it matches.
// Subject selects the text the pattern runs against (the file stem for most
// rules, the parent directory name for folder-based rules).
type ClassifyRule struct {
	Name    string
	Subject func(path, stem string) string
	Pattern *regexp.Regexp
	Extract func(path, stem string, matches []string) MediaInfo
}

// Classifier derives MediaInfo from a video path. It is safe for concurrent
// use; all state is built once by NewClassifier.
type Classifier struct {
	seasonDir *regexp.Regexp
	rules     []ClassifyRule
}

func NewClassifier() *Classifier {
	c := &Classifier{
		seasonDir: regexp.MustCompile(`(?i)^(?:season|s)[. \-_]?(\d{1,2})(?:\D|$)`),
	}

	byStem := func(_, stem string) string { return stem }
	byParent := func(path, _ string) string { return filepath.Base(filepath.Dir(path)) }

	// Order matters: first match wins.
	c.rules = []ClassifyRule{
		{
			Name:    "SxxExx",
			Subject: byStem,
			Pattern: regexp.MustCompile(`(?i)^(.*?)[. \-_]+s(\d+)[. \-_]*e\d+`),
			Extract: c.extractSxxExx,
		},
		{
			Name:    "NxNN",
			Subject: byStem,
			Pattern: regexp.MustCompile(`(?i)^(.*?)[. \-_]+(\d+)x\d+`),
			Extract: c.extractNxNN,
		},
		{
			Name:    "Year",
			Subject: byStem,
			Pattern: regexp.MustCompile(`(?i)^(.*?)[. \-_]+(\d{4})`),
			Extract: c.extractYear,
		},
		{
			Name:    "Season-folder",
			Subject: byParent,
			Pattern: c.seasonDir,
			Extract: c.extractSeasonFolder,
		},
	}

	return c
}

// Rules returns the ordered rule list.
func (c *Classifier) Rules() []ClassifyRule {
	return append([]ClassifyRule(nil), c.rules...)
}

// Classify evaluates the rules top to bottom against videoPath. When none
// matches the video is a movie titled after its cleaned stem.
func (c *Classifier) Classify(videoPath string) MediaInfo {
	stem := file.Stem(videoPath)

	for _, rule := range c.rules {
		m := rule.Pattern.FindStringSubmatch(rule.Subject(videoPath, stem))
		if m == nil {
			continue
		}
		return rule.Extract(videoPath, stem, m)
	}

	return MediaInfo{Title: CleanTitle(stem)}
}

func (c *Classifier) extractSxxExx(path, _ string, m []string) MediaInfo {
	raw := m[1]
	title := CleanTitle(raw)
	if utf8.RuneCountInString(raw) < 2 {
		title = c.inferTitleFromFolders(path)
	}
	return MediaInfo{
		Title:        title,
		IsSeries:     true,
		SeasonFolder: SeasonFolder(m[2]),
	}
}

func (c *Classifier) extractNxNN(_, _ string, m []string) MediaInfo {
	title := CleanTitle(m[1])
	if title == "" {
		title = unknownTitle
	}
	return MediaInfo{
		Title:        title,
		IsSeries:     true,
		SeasonFolder: SeasonFolder(m[2]),
	}
}

func (c *Classifier) extractYear(_, stem string, m []string) MediaInfo {
	raw, year := m[1], m[2]

	title := CleanTitle(raw)
	if raw == "" {
		title = strings.TrimSpace(strings.ReplaceAll(stem, year, ""))
	}
	return MediaInfo{
		Title: title,
		Year:  year,
	}
}

func (c *Classifier) extractSeasonFolder(path, _ string, m []string) MediaInfo {
	return MediaInfo{
		Title:        c.inferTitleFromFolders(path),
		IsSeries:     true,
		SeasonFolder: SeasonFolder(m[1]),
	}
}

// inferTitleFromFolders names a series after the directory holding it:
// the grandparent when the parent is a season folder, else the parent.
func (c *Classifier) inferTitleFromFolders(path string) string {
	parts := strings.FieldsFunc(filepath.ToSlash(filepath.Clean(path)), func(r rune) bool {
		return r == '/'
	})
	if len(parts) < 2 {
		return unknownTitle
	}

	name := parts[len(parts)-2]
	if c.seasonDir.MatchString(name) {
		if len(parts) < 3 {
			return unknownTitle
		}
		name = parts[len(parts)-3]
	}

	if title := CleanTitle(name); title != "" {
		return title
	}
	return unknownTitle
}

// CleanTitle turns separators into spaces, collapses whitespace and upper
// cases the first letter of every word. Other letters are left untouched.
func CleanTitle(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)

	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SeasonFolder formats a season number as "Season NN", zero padded to two
// digits. An empty season means season 1.
func SeasonFolder(season string) string {
	season = strings.TrimSpace(season)
	if season == "" {
		season = "1"
	}
	if len(season) < 2 {
		season = strings.Repeat("0", 2-len(season)) + season
	}
	return "Season " + season
}
