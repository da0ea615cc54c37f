package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TitleFilter rejects promotional and commerce titles before they
// reach the publisher. An editorial policy, configurable per
// deployment, not a technical safeguard.
type TitleFilter struct {
	keywords []string
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// New builds a filter over the configured keyword list. Keywords are
// matched case- and diacritic-insensitively, so "promoção" in config
// also catches "PROMOCAO" in a title.
func New(keywords []string) *TitleFilter {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if f := fold(kw); f != "" {
			folded = append(folded, f)
		}
	}
	return &TitleFilter{keywords: folded}
}

// Rejects reports whether the title violates the policy, returning the
// matching keyword for the cycle log.
func (f *TitleFilter) Rejects(title string) (string, bool) {
	folded := fold(title)
	if folded == "" {
		return "", false
	}
	for _, kw := range f.keywords {
		if strings.Contains(folded, kw) {
			return kw, true
		}
	}
	return "", false
}

// fold lowercases and strips diacritics for comparison.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(foldMarks, s); err == nil {
		return out
	}
	return s
}
