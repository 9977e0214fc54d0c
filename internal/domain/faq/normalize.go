package faq

import (
	"strings"
	"unicode"
)

// foldQuestion is the uniqueness key: case-insensitive, otherwise verbatim.
func foldQuestion(q string) string {
	return strings.ToLower(q)
}

// NormalizeQuestion lowercases text and collapses punctuation and whitespace
// into single spaces, leaving only letter/digit words.
func NormalizeQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation counts as a word break
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}
