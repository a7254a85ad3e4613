// Package assistant implements the storefront's conversational command
// interpreter: a deterministic keyword pipeline that classifies intent,
// extracts parameters from free text, carries short-lived conversational
// context across turns, and emits both a reply and a machine-actionable
// instruction for the UI.
package assistant

import (
	"strings"
)

// trailingPunctuation is the set stripped from the end of every command.
const trailingPunctuation = ".,!?;:"

// Normalize lower-cases the input, trims surrounding whitespace and strips
// a trailing run of punctuation. It is idempotent and never fails.
func Normalize(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.TrimRight(text, trailingPunctuation)
	return strings.TrimSpace(text)
}
