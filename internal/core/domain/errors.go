package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// Ingestion errors. Per-file: one bad file never aborts a batch.

	// ErrUnsupportedType indicates a file extension with no extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrExtractionFailed indicates a file of a supported type could not be read.
	ErrExtractionFailed = errors.New("extraction failed")

	// Embedding errors.

	// ErrEmbeddingUnavailable indicates the embedding provider is unreachable.
	// The embedding client does not retry; retry policy belongs to the caller.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrEmbeddingBadResponse indicates the provider returned a malformed result.
	ErrEmbeddingBadResponse = errors.New("embedding provider returned bad response")

	// Index errors.

	// ErrIndexMissing indicates the collection does not exist.
	// Absent is distinguishable from empty: a deleted collection must be
	// recreated before it can be queried.
	ErrIndexMissing = errors.New("index collection does not exist")

	// ErrIndexBusy indicates an administrative operation holds the index.
	// Retryable by the caller.
	ErrIndexBusy = errors.New("index busy")

	// ErrIndexCorrupt indicates the index handle could not be reconstructed
	// after a destructive reset.
	ErrIndexCorrupt = errors.New("index handle corrupt")

	// Generation errors.

	// ErrGenerationUnavailable indicates the generation provider is unreachable.
	ErrGenerationUnavailable = errors.New("generation provider unavailable")

	// ErrStreamInterrupted indicates the provider stream ended before its
	// completion signal.
	ErrStreamInterrupted = errors.New("generation stream interrupted")

	// Settings errors.

	// ErrInvalidModel indicates a model name the provider does not serve.
	ErrInvalidModel = errors.New("model not available")

	// ErrInvalidChunkParams indicates chunk_overlap >= chunk_size or a
	// non-positive chunk_size.
	ErrInvalidChunkParams = errors.New("invalid chunk parameters")

	// ErrInvalidSettings indicates a settings field failed validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Retryable reports whether the caller may usefully retry the operation.
// Only the busy-index condition is retryable; everything else is terminal
// for the request that hit it.
func Retryable(err error) bool {
	return errors.Is(err, ErrIndexBusy)
}
