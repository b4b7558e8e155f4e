package file

import (
	"path/filepath"
	"strings"
)

func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if lastDot <= 0 {
		return filepath.Join(dir, filename+ext)
	}

	return filepath.Join(dir, filename[:lastDot]+ext)
}

// Stem returns the file name of path without its final extension.
// "Show.S01E01.mkv" -> "Show.S01E01", ".hidden" -> ".hidden".
func Stem(path string) string {
	name := filepath.Base(path)
	lastDot := strings.LastIndex(name, ".")
	if lastDot <= 0 {
		return name
	}
	return name[:lastDot]
}
