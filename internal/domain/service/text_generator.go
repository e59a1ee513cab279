package service

import "context"

// TextGenerator abstracts the language-model API used for AI insights. The
// insight use case builds prompts; this service only completes them.
type TextGenerator interface {
	// GenerateText returns the model's completion for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
