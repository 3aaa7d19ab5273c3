// Package assistant wraps the generative-language backend behind a small
// interface and owns prompt construction for the Archeon persona.
package assistant

import "context"

// Generator produces text for a fully constructed prompt.
// Implementations surface failures through the package error taxonomy
// and never retry internally; timeouts and service errors reach the
// caller as distinct categories.
type Generator interface {
	// Generate sends the prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}
