package speech

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatForSpeech(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Your cart total is now $110.49.", "Your cart total is now 110.49 dollars."},
		{"It costs $75.00 (25% off the original price of $100.00).", "It costs 75.00 dollars (25% off the original price of 100.00 dollars)."},
		{"free standard shipping on all orders over $50", "free standard shipping on all orders over 50 dollars"},
		{"no prices here", "no prices here"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatForSpeech(tt.in))
	}
}
