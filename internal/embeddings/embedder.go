// Package embeddings turns product text into vectors for semantic
// catalog search.
package embeddings

import "context"

// Embedder produces vector representations of texts. Implementations
// must return one vector per input text, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors Embed returns.
	Dimensions() int

	// Name identifies the underlying model.
	Name() string
}
