package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchWithSource(source, path string) Match {
	return Match{Chunk: Chunk{Metadata: ChunkMetadata{Source: source, Path: path}}}
}

func TestDedupeSources(t *testing.T) {
	matches := []Match{
		matchWithSource("b.pdf", "/kb/b.pdf"),
		matchWithSource("a.txt", "/kb/a.txt"),
		matchWithSource("b.pdf", "/kb/b.pdf"),
		matchWithSource("a.txt", "/kb/a.txt"),
	}

	sources := DedupeSources(matches)

	require.Len(t, sources, 2)
	assert.Equal(t, Source{Name: "a.txt", Path: "/kb/a.txt"}, sources[0])
	assert.Equal(t, Source{Name: "b.pdf", Path: "/kb/b.pdf"}, sources[1])
}

func TestDedupeSourcesSkipsEmptyNames(t *testing.T) {
	sources := DedupeSources([]Match{matchWithSource("", "/kb/x")})
	assert.Empty(t, sources)
}

func TestDedupeSourcesEmptyInput(t *testing.T) {
	assert.Empty(t, DedupeSources(nil))
}
