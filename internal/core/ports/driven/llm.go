package driven

import "context"

// GenerationService produces answer text from a prompt.
type GenerationService interface {
	// Generate returns a single completed answer.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream yields ordered text increments. onToken is called
	// once per increment; the call returns after the provider signals
	// completion, the context is cancelled, or an error occurs. A stream
	// that ends without the provider's completion signal returns
	// domain.ErrStreamInterrupted.
	GenerateStream(ctx context.Context, prompt string, onToken func(token string) error) error

	// ListModels returns the model names the provider serves.
	ListModels(ctx context.Context) ([]string, error)

	// ModelName returns the generation model in use.
	ModelName() string

	// Ping validates the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
