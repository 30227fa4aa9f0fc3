// Package provider wraps outbound calls to the chat-completion and
// image-generation providers, normalizing responses and errors.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/maiya-app/maiya/internal/domain"
)

// Client is the provider surface the assistant depends on. Both calls are
// single-shot from the caller's perspective; retry happens inside the
// implementation, never in the router.
type Client interface {
	// Complete sends the system prompt plus conversation history to the
	// chat provider and returns the assistant's reply text.
	Complete(ctx context.Context, systemPrompt string, history []domain.Message) (string, error)

	// GenerateImage asks the image provider for one image and returns its URL.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Error carries the upstream status and message for a failed or malformed
// provider response. Callers must not assume partial results are usable.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

// AsError extracts a provider *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// retryable reports whether a failed call is worth retrying: rate limits,
// upstream 5xx, and transport-level failures.
func retryable(err error) bool {
	if pe, ok := AsError(err); ok {
		return pe.Status == 429 || pe.Status >= 500
	}
	// Non-Error failures are transport errors (connection refused, timeout).
	return true
}
