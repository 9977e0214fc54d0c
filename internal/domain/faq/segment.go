package faq

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences breaks a message into trimmed, non-empty sentences. A break
// happens at a whitespace run that follows '.', '!' or '?', and at any run of
// newlines. Text without either comes back as a single sentence.
func SplitSentences(text string) []string {
	text = strings.TrimFunc(text, isSpace)
	var (
		out           []string
		start         int
		afterTerminal bool
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case afterTerminal && isSpace(r):
			end := skipWhile(text, i, isSpace)
			out = appendSentence(out, text[start:i])
			start, i = end, end
			afterTerminal = false
			continue
		case r == '\n':
			end := skipWhile(text, i, func(r rune) bool { return r == '\n' })
			out = appendSentence(out, text[start:i])
			start, i = end, end
			afterTerminal = false
			continue
		}
		afterTerminal = isTerminal(r)
		i += size
	}
	return appendSentence(out, text[start:])
}

// isSpace is unicode.IsSpace plus the ASCII separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func skipWhile(text string, i int, keep func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !keep(r) {
			break
		}
		i += size
	}
	return i
}

func appendSentence(out []string, fragment string) []string {
	if s := strings.TrimFunc(fragment, isSpace); s != "" {
		return append(out, s)
	}
	return out
}
