package transform

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var personName = regexp.MustCompile(`^[A-Za-zÀ-ÿ\s]+$`)

// validName accepts letters (Latin-1 accents included) and inner spaces,
// at least two characters once trimmed.
func validName(s string) bool {
	s = norm.NFC.String(s)
	trimmed := strings.TrimSpace(s)
	if utf8.RuneCountInString(trimmed) < 2 {
		return false
	}
	return personName.MatchString(s)
}

func lettersOnly(s string) bool {
	return personName.MatchString(norm.NFC.String(s))
}

// capitalize trims s, upper-cases its first letter and lower-cases the rest.
func capitalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	lower := cases.Lower(language.Und).String(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}
