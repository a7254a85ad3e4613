package assistant

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase_and_punctuation", "Find HELMETS!!", "find helmets"},
		{"trim_whitespace", "  add to cart  ", "add to cart"},
		{"mixed_trailing_punctuation", "what's in my cart?!;:", "what's in my cart"},
		{"inner_punctuation_kept", "what's in my cart", "what's in my cart"},
		{"empty", "", ""},
		{"whitespace_only", "   \t ", ""},
		{"punctuation_only", "?!.", ""},
		{"trailing_space_after_punctuation", "find shoes . ", "find shoes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Find HELMETS!!", "  hello there...  ", "cart", ""}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
