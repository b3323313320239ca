package driven

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// Extractor converts a raw file of one format into plain text plus
// structural metadata.
type Extractor interface {
	// Extract reads the file at path and returns the document.
	// Failures to parse a supported format wrap domain.ErrExtractionFailed.
	Extract(ctx context.Context, path string) (*domain.Document, error)

	// Extensions returns the lowercased file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string
}
