package subtitle

import (
	"strings"

	"golang.org/x/text/language"
)

// Entry is one row of the language table.
type Entry struct {
	Code string // short tag as it appears in file names ("en", "zh-cn")
	ISO3 string // ISO 639-2 code used for the muxed track
	Name string // display name used as track name

	base language.Base
	ok   bool
}

// Result converts the entry to the value attached to a track.
func (e Entry) Result() LanguageResult {
	return LanguageResult{ISO3: e.ISO3, Name: e.Name}
}

// Table is an ordered, read-only language table. Lookups walk the entries
// in order and the first hit wins.
type Table struct {
	entries []Entry
}

// NewTable builds a table from entries, keeping their order.
func NewTable(entries ...Entry) Table {
	t := Table{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		e.Code = strings.ToLower(e.Code)
		e.ISO3 = strings.ToLower(e.ISO3)
		if tag, err := language.Parse(e.Code); err == nil {
			if base, conf := tag.Base(); conf != language.No {
				e.base, e.ok = base, true
			}
		}
		t.entries = append(t.entries, e)
	}
	return t
}

// DefaultTable returns the built-in table. Order: fi, en, sv, de, fr, es,
// no, da, ru, it, ja, zh-cn, ko, pl, pt.
func DefaultTable() Table {
	return NewTable(
		Entry{Code: "fi", ISO3: "fin", Name: "Finnish"},
		Entry{Code: "en", ISO3: "eng", Name: "English"},
		Entry{Code: "sv", ISO3: "swe", Name: "Swedish"},
		Entry{Code: "de", ISO3: "ger", Name: "German"},
		Entry{Code: "fr", ISO3: "fre", Name: "French"},
		Entry{Code: "es", ISO3: "spa", Name: "Spanish"},
		Entry{Code: "no", ISO3: "nor", Name: "Norwegian"},
		Entry{Code: "da", ISO3: "dan", Name: "Danish"},
		Entry{Code: "ru", ISO3: "rus", Name: "Russian"},
		Entry{Code: "it", ISO3: "ita", Name: "Italian"},
		Entry{Code: "ja", ISO3: "jpn", Name: "Japanese"},
		Entry{Code: "zh-cn", ISO3: "chi", Name: "Chinese"},
		Entry{Code: "ko", ISO3: "kor", Name: "Korean"},
		Entry{Code: "pl", ISO3: "pol", Name: "Polish"},
		Entry{Code: "pt", ISO3: "por", Name: "Portuguese"},
	)
}

// Entries returns a copy of the table rows in lookup order.
func (t Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

func (t Table) Len() int {
	return len(t.entries)
}

// MatchFilename looks for a language tag delimited by '.' or '_' before and
// '.' after it: ".en.", "_en.", ".eng.", "_eng.". The name is lowercased
// first.
func (t Table) MatchFilename(name string) (Entry, bool) {
	name = strings.ToLower(name)
	for _, e := range t.entries {
		for _, code := range []string{e.Code, e.ISO3} {
			if strings.Contains(name, "."+code+".") || strings.Contains(name, "_"+code+".") {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// LookupDetected maps a detector result onto the table. code may be the
// short tag, the three-letter code or any ISO 639 code x/text resolves to
// the same base language.
func (t Table) LookupDetected(code string) (Entry, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Entry{}, false
	}

	for _, e := range t.entries {
		if e.Code == code {
			return e, true
		}
	}
	for _, e := range t.entries {
		if e.ISO3 == code {
			return e, true
		}
	}

	base, err := language.ParseBase(code)
	if err != nil {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.ok && e.base == base {
			return e, true
		}
	}
	return Entry{}, false
}
