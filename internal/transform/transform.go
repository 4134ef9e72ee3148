// Package transform talks to the text-generation providers. Everything the
// drivers need from a model goes through the Transformer interface.
package transform

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmpty is returned when a provider answered with no text.
var ErrEmpty = errors.New("empty response")

// Options tune sampling for one call.
type Options struct {
	Temperature float64
	TopP        float64
}

// DefaultOptions returns the low-temperature sampling used for editing tasks.
func DefaultOptions() Options {
	return Options{Temperature: 0.1, TopP: 0.7}
}

// Transformer turns userText into new text following systemPrompt.
type Transformer interface {
	Transform(ctx context.Context, systemPrompt, userText string, opts Options) (string, error)
}

// Func adapts a plain function to Transformer.
type Func func(ctx context.Context, systemPrompt, userText string, opts Options) (string, error)

func (f Func) Transform(ctx context.Context, systemPrompt, userText string, opts Options) (string, error) {
	return f(ctx, systemPrompt, userText, opts)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
