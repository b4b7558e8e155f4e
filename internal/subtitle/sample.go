package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSampleSize is the number of characters of qualifying lines
	// gathered before detection runs.
	DefaultSampleSize = 1500

	// minLetters is the letter count a line must exceed to qualify. Index
	// numbers, timestamps and styling lines fall below it.
	minLetters = 5

	maxLineBytes = 1 << 20
)

// ReadSample collects qualifying lines of the file at path until more than
// limit characters have been gathered or the file ends. Lines are joined by
// a single space.
func ReadSample(path string, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open subtitle: %w", err)
	}
	defer f.Close()

	var sample strings.Builder
	total := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !qualifies(line) {
			continue
		}
		sample.WriteString(line)
		sample.WriteByte(' ')
		total += utf8.RuneCountInString(line)
		if total > limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read subtitle: %w", err)
	}

	return sample.String(), nil
}

func qualifies(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if letters > minLetters {
				return true
			}
		}
	}
	return false
}
