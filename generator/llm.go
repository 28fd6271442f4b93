package generator

import (
	"context"
	"fmt"
)

// DefaultMaxTokens is the output budget sent with every completion.
const DefaultMaxTokens = 800

// LLMClient abstracts the completion endpoint so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is one single-turn completion call.
type CompletionRequest struct {
	Model       string
	Prompt      Prompt
	MaxTokens   int
	Temperature float64
}

// LLMSettings is the base configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// ErrorKind classifies completion failures for display and metrics.
type ErrorKind string

const (
	ErrorTransport ErrorKind = "transport"
	ErrorAuth      ErrorKind = "auth"
	ErrorService   ErrorKind = "service"
	ErrorEmpty     ErrorKind = "empty"
)

// CompletionError wraps any failure of the remote completion call.
type CompletionError struct {
	Kind       ErrorKind
	Model      string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error from model %s (status %d): %v", e.Kind, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s error from model %s: %v", e.Kind, e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
