package driven

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// Entry is one indexed chunk with its embedding.
type Entry struct {
	// ID is unique within the collection; upserting an existing ID
	// replaces that entry.
	ID string

	// Embedding is the chunk's vector.
	Embedding []float32

	// Text is the chunk content.
	Text string

	// Metadata is the chunk metadata.
	Metadata domain.ChunkMetadata
}

// SearchResult is the outcome of a nearest-neighbour query.
// A missing collection is reported through IndexMissing, not an error,
// so callers can choose the no-context path; an existing collection with
// no matches yields empty Matches and IndexMissing false.
type SearchResult struct {
	// Matches are ranked by cosine similarity, descending.
	Matches []domain.Match

	// IndexMissing is true when the collection does not exist.
	IndexMissing bool
}

// VectorIndex owns the lifecycle of the persistent vector index.
//
// States: Uninitialized -> Ready -> (Resetting -> Ready)*, with an error
// state reachable on unrecoverable provider failure. Open is idempotent.
// Destructive operations (Clear, Destroy) are serialized against Search
// and Upsert: no call observes a collection mid-destroy.
type VectorIndex interface {
	// Open moves the index to Ready. Safe to call when already Ready.
	Open(ctx context.Context) error

	// Upsert inserts or replaces entries, creating the collection if it
	// does not exist.
	Upsert(ctx context.Context, entries []Entry) error

	// Search returns the k nearest entries to the query vector.
	Search(ctx context.Context, query []float32, k int) (SearchResult, error)

	// Clear deletes all entries but preserves the collection identity.
	Clear(ctx context.Context) error

	// Destroy deletes the collection and all storage, then reconstructs
	// the index empty. Recovery from stale handles uses a bounded
	// readiness probe, never fixed sleeps.
	Destroy(ctx context.Context) error

	// Count returns the number of entries, or 0 with domain.ErrIndexMissing
	// when the collection does not exist.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
