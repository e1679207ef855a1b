package ai

import (
	"context"
	"errors"
)

// Provider is the single capability the orchestration core needs from an
// LLM binding: given a system prompt and a user message, return the model's
// reply text. Implementations must honor ctx cancellation.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

var (
	// ErrEmptyCompletion is returned when the provider answered but the
	// reply carried no usable text.
	ErrEmptyCompletion = errors.New("provider returned an empty completion")
)
