package domain

import "sort"

// Match is one ranked retrieval result.
// A slice of Match keeps text, metadata and score positionally aligned
// by construction.
type Match struct {
	// Chunk is the retrieved chunk (id, text and metadata).
	Chunk Chunk

	// Score is the cosine similarity to the query, in [0, 1].
	Score float64
}

// Answer is the result of a non-streaming chat request.
type Answer struct {
	// Text is the generated reply.
	Text string `json:"answer"`

	// Sources are the deduplicated citations, sorted by name.
	// Empty when the answer was produced without retrieved context.
	Sources []Source `json:"sources"`
}

// DedupeSources collapses matches to unique {name, path} pairs sorted by
// name. Every returned source appears in at least one match's metadata.
func DedupeSources(matches []Match) []Source {
	seen := make(map[string]string, len(matches))
	for _, m := range matches {
		if m.Chunk.Metadata.Source == "" {
			continue
		}
		seen[m.Chunk.Metadata.Source] = m.Chunk.Metadata.Path
	}

	sources := make([]Source, 0, len(seen))
	for name, path := range seen {
		sources = append(sources, Source{Name: name, Path: path})
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})
	return sources
}
