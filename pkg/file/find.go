package file

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindByExt walks dir and returns every regular file whose lowercased
// extension (with leading dot) is in exts. Unreadable subtrees are skipped.
func FindByExt(dir string, exts []string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && HasExt(path, exts) {
			found = append(found, path)
		}
		return nil
	})

	return found, err
}

// HasExt reports whether path's lowercased extension is listed in exts.
func HasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return slices.Contains(exts, ext)
}
