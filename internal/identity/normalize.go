// Package identity resolves free-text approver names against the people directory.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text for comparison. Diacritics are stripped and only word
// characters, whitespace and periods survive; the result is lower-cased and trimmed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(isNoise)),
	)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

func isNoise(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
		return false
	case r == '_' || r == '.':
		return false
	}
	return true
}
