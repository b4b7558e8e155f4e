package subtitle

// LanguageResult is the language assigned to one subtitle track.
type LanguageResult struct {
	ISO3 string // ISO 639-2 code written into the container, e.g. "fin"
	Name string // track name, e.g. "Finnish"
}

// Undefined is returned whenever a language cannot be resolved.
var Undefined = LanguageResult{ISO3: "und", Name: "Undefined"}

func (r LanguageResult) IsUndefined() bool {
	return r.ISO3 == Undefined.ISO3
}

// Detector identifies the language of a text sample. It returns an ISO 639-1
// or ISO 639-3 code, and false when the text could not be classified.
type Detector interface {
	Detect(text string) (code string, ok bool)
}

// DetectorFunc adapts a plain function to Detector.
type DetectorFunc func(text string) (string, bool)

func (f DetectorFunc) Detect(text string) (string, bool) {
	return f(text)
}
