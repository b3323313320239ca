package driving

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// Searcher retrieves ranked chunks without generating an answer.
type Searcher interface {
	// Search returns the k best-matching chunks for query, ranked by
	// similarity. k <= 0 uses the configured top-k. A missing index
	// yields no matches and no error.
	Search(ctx context.Context, query string, k int) ([]domain.Match, error)
}
