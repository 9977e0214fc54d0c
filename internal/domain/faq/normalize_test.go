package faq

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "removes punctuation", in: "What's, the distance?", out: "what s the distance"},
		{name: "collapses newlines", in: "How do I\n\tinstall?", out: "how do i install"},
		{name: "keeps digits", in: "Error 404!!", out: "error 404"},
	}

	for _, tc := range cases {
		if got := NormalizeQuestion(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestFoldQuestionOnlyChangesCase(t *testing.T) {
	if foldQuestion("How Do I?") != foldQuestion("how do i?") {
		t.Fatalf("expected case-insensitive keys to match")
	}
	if foldQuestion("how do i?") == foldQuestion("how do i") {
		t.Fatalf("expected punctuation to stay significant")
	}
	if foldQuestion(" how") == foldQuestion("how") {
		t.Fatalf("expected whitespace to stay significant")
	}
}
