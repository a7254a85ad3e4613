// Package speech turns assistant replies into audio. The storefront client
// does its own speech capture, so only the output side lives here.
package speech

import (
	"context"
	"regexp"
)

// Output voices assistant replies. Speak is best effort; callers treat
// failures as degraded service, never as turn failures.
type Output interface {
	Speak(ctx context.Context, text string) error
	Stop()
}

// Noop is the output used when speech synthesis is disabled.
type Noop struct{}

func (Noop) Speak(context.Context, string) error { return nil }
func (Noop) Stop()                               {}

var dollarAmount = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)

// FormatForSpeech rewrites reply text into a form that reads naturally
// aloud, turning "$110.49" into "110.49 dollars".
func FormatForSpeech(text string) string {
	return dollarAmount.ReplaceAllString(text, "$1 dollars")
}
