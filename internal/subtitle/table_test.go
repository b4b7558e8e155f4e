package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Order(t *testing.T) {
	table := DefaultTable()

	var codes []string
	for _, e := range table.Entries() {
		codes = append(codes, e.Code)
	}

	assert.Equal(t, []string{
		"fi", "en", "sv", "de", "fr", "es", "no", "da",
		"ru", "it", "ja", "zh-cn", "ko", "pl", "pt",
	}, codes)
	assert.Equal(t, 15, table.Len())
}

func TestDefaultTable_ReturnsFreshCopy(t *testing.T) {
	a := DefaultTable()
	entries := a.Entries()
	entries[0].ISO3 = "xxx"

	assert.Equal(t, "fin", DefaultTable().Entries()[0].ISO3)
	assert.Equal(t, "fin", a.Entries()[0].ISO3)
}

func TestTable_MatchFilename(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		filename string
		wantISO3 string
		wantOK   bool
	}{
		{name: "dot two letter", filename: "Movie.en.srt", wantISO3: "eng", wantOK: true},
		{name: "underscore two letter", filename: "movie_fi.srt", wantISO3: "fin", wantOK: true},
		{name: "dot three letter", filename: "Show.S01E01.swe.ass", wantISO3: "swe", wantOK: true},
		{name: "underscore three letter", filename: "show_ger.srt", wantISO3: "ger", wantOK: true},
		{name: "case insensitive", filename: "Movie.EN.srt", wantISO3: "eng", wantOK: true},
		{name: "region tag", filename: "movie.zh-cn.srt", wantISO3: "chi", wantOK: true},
		{name: "table order wins", filename: "movie.en.fi.srt", wantISO3: "fin", wantOK: true},
		{name: "no delimiter after", filename: "movie.en", wantOK: false},
		{name: "word containing code", filename: "frozen.srt", wantOK: false},
		{name: "no tag", filename: "Movie.srt", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := table.MatchFilename(tt.filename)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantISO3, e.ISO3)
			}
		})
	}
}

func TestTable_LookupDetected(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		code     string
		wantISO3 string
		wantOK   bool
	}{
		{code: "fi", wantISO3: "fin", wantOK: true},
		{code: "EN", wantISO3: "eng", wantOK: true},
		{code: "swe", wantISO3: "swe", wantOK: true},
		{code: "deu", wantISO3: "ger", wantOK: true},
		{code: "zh", wantISO3: "chi", wantOK: true},
		{code: "nl", wantOK: false},
		{code: "", wantOK: false},
		{code: "not-a-language", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e, ok := table.LookupDetected(tt.code)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantISO3, e.ISO3)
			}
		})
	}
}

func TestNewTable_Custom(t *testing.T) {
	table := NewTable(Entry{Code: "nl", ISO3: "dut", Name: "Dutch"})

	e, ok := table.MatchFilename("film.nl.srt")
	require.True(t, ok)
	assert.Equal(t, LanguageResult{ISO3: "dut", Name: "Dutch"}, e.Result())

	_, ok = table.MatchFilename("film.en.srt")
	assert.False(t, ok)
}
