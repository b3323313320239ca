package driving

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// FileResult records the outcome of ingesting one file.
type FileResult struct {
	// Name is the base file name.
	Name string

	// Chunks is the number of chunks indexed from the file.
	Chunks int

	// Err is the per-file failure, nil on success.
	Err error
}

// BatchResult aggregates a multi-file ingestion run.
// One bad file never aborts the batch.
type BatchResult struct {
	// Files are per-file outcomes in processing order.
	Files []FileResult

	// Chunks is the total number of chunks indexed.
	Chunks int
}

// Failed returns the results for files that could not be ingested.
func (r *BatchResult) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Ingestor feeds documents into the vector index.
type Ingestor interface {
	// IngestFiles extracts, chunks, embeds and indexes the given files.
	IngestFiles(ctx context.Context, paths []string) (*BatchResult, error)

	// Refresh destroys the index and re-ingests every supported file in
	// the knowledge directory. Returns domain.ErrIndexBusy if an
	// administrative operation is already running.
	Refresh(ctx context.Context) (*BatchResult, error)

	// ClearAll destroys the index and removes all knowledge-base files.
	// Cleanup is best effort; failure to reconstruct the index is surfaced.
	ClearAll(ctx context.Context) error

	// ListFiles returns the knowledge-base files matching query (all
	// files when query is empty).
	ListFiles(query string) ([]domain.FileInfo, error)
}
