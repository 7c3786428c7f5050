package embeddings

import (
	"context"
	"errors"
)

// ErrProvider indicates the embedding provider could not be reached or
// rejected the request. Calls are single-attempt; failures surface to the
// caller as-is.
var ErrProvider = errors.New("embedding provider error")

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne generates the embedding for a single text.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
