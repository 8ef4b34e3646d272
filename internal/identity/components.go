package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nameNoise matches everything that cannot be part of a Latin or Cyrillic name.
// Commas survive so the "Surname, Given" form can still be recognised.
var nameNoise = regexp.MustCompile(`[^а-яА-ЯёЁa-zA-Z\p{Z}\s.,]`)

// IsInitial reports whether a name token is an initial such as "J" or "J.".
func IsInitial(part string) bool {
	n := utf8.RuneCountInString(part)
	return n <= 2 || (n == 2 && strings.HasSuffix(part, "."))
}

// ExtractComponents splits a display name into surname and given names.
//
// "Smith, John" yields ("Smith", "John"), and anything after a second comma is
// dropped. "J. Smith" and "Smith J." both yield ("Smith", "J."); "John Paul Smith"
// yields ("Smith", "John Paul").
func ExtractComponents(name string) (surname, givenNames string) {
	clean := strings.TrimSpace(nameNoise.ReplaceAllString(name, ""))

	if strings.Contains(clean, ",") {
		parts := strings.Split(clean, ",")
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	parts := strings.Fields(clean)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}

	first, last := parts[0], parts[len(parts)-1]
	if IsInitial(last) {
		return first, last
	}
	if IsInitial(first) {
		return last, first
	}
	return last, strings.Join(parts[:len(parts)-1], " ")
}
