package validators

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "trims whitespace", input: "  lavanda  ", maxLen: 20, want: "lavanda"},
		{name: "caps long input", input: strings.Repeat("a", 10), maxLen: 4, want: "aaaa"},
		{name: "zero max means uncapped", input: strings.Repeat("a", 10), maxLen: 0, want: strings.Repeat("a", 10)},
		{name: "backs off to rune boundary", input: "óóó", maxLen: 3, want: "ó"},
		{name: "exact boundary keeps full rune", input: "óleo", maxLen: 5, want: "óleo"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := SanitizeString(tc.input, tc.maxLen)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("expected valid UTF-8, got %q", got)
			}
		})
	}
}
