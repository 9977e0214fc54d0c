package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  []string
	}{
		{name: "mixed terminators and newline", in: "What is X? It is Y.\nSee docs.", out: []string{"What is X?", "It is Y.", "See docs."}},
		{name: "no terminal punctuation", in: "  just one line here  ", out: []string{"just one line here"}},
		{name: "period without following space", in: "a.b. c", out: []string{"a.b.", "c"}},
		{name: "repeated punctuation", in: "hi!!  there?\n\n\nok", out: []string{"hi!!", "there?", "ok"}},
		{name: "newline run without punctuation", in: "first\n\n\nsecond", out: []string{"first", "second"}},
		{name: "whitespace run after punctuation spans newlines", in: "a.\t \nb", out: []string{"a.", "b"}},
		{name: "lone punctuation fragment", in: "one\n. two", out: []string{"one", ".", "two"}},
		{name: "carriage return kept inside sentence", in: "line one\r\nline two", out: []string{"line one", "line two"}},
		{name: "whitespace only", in: " \n\t ", out: nil},
		{name: "empty", in: "", out: nil},
		{name: "trailing terminator", in: "end.", out: []string{"end."}},
		{name: "ascii separator after punctuation", in: "a.\x1fb", out: []string{"a.", "b"}},
		{name: "ascii separators trimmed", in: "\x1c hello \x1d", out: []string{"hello"}},
		{name: "ascii separator inside sentence", in: "x\x1ey", out: []string{"x\x1ey"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, SplitSentences(tc.in))
		})
	}
}
