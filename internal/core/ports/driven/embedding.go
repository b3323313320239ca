package driven

import "context"

// EmbeddingService converts text to fixed-length vectors.
type EmbeddingService interface {
	// Embed generates a vector embedding for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The output is positionally aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the embedding model in use.
	ModelName() string

	// Ping validates the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
