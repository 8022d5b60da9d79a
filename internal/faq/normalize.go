package faq

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenLen is the shortest token that takes part in matching.
const minTokenLen = 3

// Tokenize lower-cases text, drops every rune that is not an ASCII letter,
// digit, underscore, or whitespace, splits on whitespace, and discards tokens
// shorter than three characters.
func Tokenize(text string) []string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
