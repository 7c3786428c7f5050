package llm

import (
	"context"
	"errors"
)

// ErrProvider indicates the chat completion provider could not be reached or
// rejected the request. Single-attempt; failures surface to the caller as-is.
var ErrProvider = errors.New("chat provider error")

// Provider defines the interface for chat completion providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
