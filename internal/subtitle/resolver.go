package subtitle

import (
	"path/filepath"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

// WhatlangDetector detects languages with whatlanggo's trigram models.
type WhatlangDetector struct{}

func (WhatlangDetector) Detect(text string) (string, bool) {
	lang := whatlanggo.DetectLang(text)
	if lang < 0 {
		return "", false
	}
	if code := lang.Iso6391(); code != "" {
		return code, true
	}
	if code := lang.Iso6393(); code != "" {
		return code, true
	}
	return "", false
}

type resolverOptions struct {
	detector   Detector
	sampleSize int
}

type ResolverOption func(*resolverOptions)

func WithDetector(detector Detector) ResolverOption {
	return func(o *resolverOptions) {
		o.detector = detector
	}
}

func WithSampleSize(n int) ResolverOption {
	return func(o *resolverOptions) {
		if n > 0 {
			o.sampleSize = n
		}
	}
}

// Resolver assigns a language to subtitle files. File name tags are trusted
// first; content detection on short excerpts is only a fallback.
type Resolver struct {
	table      Table
	detector   Detector
	sampleSize int
}

func NewResolver(table Table, opts ...ResolverOption) *Resolver {
	options := resolverOptions{
		detector:   WhatlangDetector{},
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Resolver{
		table:      table,
		detector:   options.detector,
		sampleSize: options.sampleSize,
	}
}

// Resolve never fails: anything it cannot classify is Undefined.
func (r *Resolver) Resolve(path string) LanguageResult {
	if e, ok := r.table.MatchFilename(filepath.Base(path)); ok {
		return e.Result()
	}

	sample, err := ReadSample(path, r.sampleSize)
	if err != nil {
		log.Warn("Language detection skipped for %s: %v", filepath.Base(path), err)
		return Undefined
	}
	if strings.TrimSpace(sample) == "" {
		return Undefined
	}

	code, ok := r.detector.Detect(sample)
	if !ok {
		return Undefined
	}

	e, ok := r.table.LookupDetected(code)
	if !ok {
		log.Debug("Detected language %q for %s is not in the table", code, filepath.Base(path))
		return Undefined
	}
	return e.Result()
}
