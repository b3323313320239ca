package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/extractors"
)

func newTestIngest(t *testing.T, index *mockIndex, embedder *mockEmbedder) (*Ingest, string) {
	t.Helper()
	if embedder.embedding == nil {
		embedder.embedding = []float32{1, 0}
	}
	dir := filepath.Join(t.TempDir(), "knowledge")
	ing, err := NewIngest(extractors.NewDefaultRegistry(), index, newTestRuntime(embedder, &mockGenerator{}), dir)
	require.NoError(t, err)
	return ing, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestFiles(t *testing.T) {
	index := &mockIndex{}
	ing, knowledgeDir := newTestIngest(t, index, &mockEmbedder{})
	src := writeFile(t, t.TempDir(), "notes.txt", "some document text")

	result, err := ing.IngestFiles(context.Background(), []string{src})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.NoError(t, result.Files[0].Err)
	assert.Equal(t, 1, result.Files[0].Chunks)
	assert.Equal(t, 1, result.Chunks)
	assert.Empty(t, result.Failed())

	// The file was copied into the knowledge directory.
	_, statErr := os.Stat(filepath.Join(knowledgeDir, "notes.txt"))
	assert.NoError(t, statErr)

	require.Len(t, index.upserted, 1)
	entry := index.upserted[0]
	assert.Equal(t, "some document text", entry.Text)
	assert.Equal(t, "notes.txt", entry.Metadata.Source)
	assert.Equal(t, domain.DocTypeTXT, entry.Metadata.DocType)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, []float32{1, 0}, entry.Embedding)
}

func TestIngestFilesOneBadFileDoesNotAbortBatch(t *testing.T) {
	index := &mockIndex{}
	ing, _ := newTestIngest(t, index, &mockEmbedder{})
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "fine")
	unsupported := writeFile(t, dir, "image.png", "binary")

	result, err := ing.IngestFiles(context.Background(), []string{unsupported, good})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.ErrorIs(t, result.Files[0].Err, domain.ErrUnsupportedType)
	assert.NoError(t, result.Files[1].Err)
	assert.Equal(t, 1, result.Chunks)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "image.png", failed[0].Name)
}

func TestIngestFilesEmptyDocumentYieldsNoChunks(t *testing.T) {
	index := &mockIndex{}
	ing, _ := newTestIngest(t, index, &mockEmbedder{})
	src := writeFile(t, t.TempDir(), "empty.txt", "   \n  ")

	result, err := ing.IngestFiles(context.Background(), []string{src})
	require.NoError(t, err)

	assert.NoError(t, result.Files[0].Err)
	assert.Zero(t, result.Chunks)
	assert.Empty(t, index.upserted)
}

func TestIngestRetriesTransientEmbeddingFailure(t *testing.T) {
	index := &mockIndex{}
	embedder := &mockEmbedder{
		embedErr: domain.ErrEmbeddingUnavailable,
		failures: 2, // first two calls fail, third succeeds
	}
	ing, _ := newTestIngest(t, index, embedder)
	src := writeFile(t, t.TempDir(), "notes.txt", "text")

	result, err := ing.IngestFiles(context.Background(), []string{src})
	require.NoError(t, err)

	assert.NoError(t, result.Files[0].Err)
	assert.Equal(t, 1, result.Chunks)
}

func TestIngestGivesUpAfterRetriesExhausted(t *testing.T) {
	index := &mockIndex{}
	embedder := &mockEmbedder{embedErr: domain.ErrEmbeddingUnavailable}
	ing, _ := newTestIngest(t, index, embedder)
	src := writeFile(t, t.TempDir(), "notes.txt", "text")

	result, err := ing.IngestFiles(context.Background(), []string{src})
	require.NoError(t, err)

	assert.ErrorIs(t, result.Files[0].Err, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, embedAttempts, embedder.calls)
	assert.Empty(t, index.upserted)
}

func TestRefreshDestroysAndReingests(t *testing.T) {
	index := &mockIndex{}
	ing, knowledgeDir := newTestIngest(t, index, &mockEmbedder{})
	writeFile(t, knowledgeDir, "a.txt", "first")
	writeFile(t, knowledgeDir, "b.txt", "second")
	writeFile(t, knowledgeDir, "skip.png", "unsupported")

	result, err := ing.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, index.destroyed)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.txt", result.Files[0].Name)
	assert.Equal(t, "b.txt", result.Files[1].Name)
	assert.Len(t, index.upserted, 2)
}

func TestClearAllRemovesIndexAndFiles(t *testing.T) {
	index := &mockIndex{}
	ing, knowledgeDir := newTestIngest(t, index, &mockEmbedder{})
	writeFile(t, knowledgeDir, "a.txt", "text")

	require.NoError(t, ing.ClearAll(context.Background()))

	assert.Equal(t, 1, index.destroyed)
	_, err := os.Stat(filepath.Join(knowledgeDir, "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestAdminOperationsAreMutuallyExclusive(t *testing.T) {
	index := &mockIndex{}
	ing, _ := newTestIngest(t, index, &mockEmbedder{})

	ing.admin.Store(true)

	_, err := ing.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexBusy)
	assert.True(t, domain.Retryable(err))

	err = ing.ClearAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexBusy)
}

func TestListFiles(t *testing.T) {
	ing, knowledgeDir := newTestIngest(t, &mockIndex{}, &mockEmbedder{})
	writeFile(t, knowledgeDir, "geology.txt", "rocks")
	writeFile(t, knowledgeDir, "biology.txt", "cells")
	writeFile(t, knowledgeDir, "image.png", "unsupported")

	all, err := ing.ListFiles("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "biology.txt", all[0].Name)
	assert.Equal(t, "geology.txt", all[1].Name)
	assert.Equal(t, "txt", all[0].Type)
	assert.Positive(t, all[0].Size)

	matched, err := ing.ListFiles("GEO")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "geology.txt", matched[0].Name)
}

func TestPageAt(t *testing.T) {
	segments := []domain.Segment{
		{Start: 0, Page: 1, TotalPages: 3},
		{Start: 100, Page: 2, TotalPages: 3},
		{Start: 250, Page: 3, TotalPages: 3},
	}

	page, total, ok := pageAt(segments, 0)
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, total)

	page, _, _ = pageAt(segments, 99)
	assert.Equal(t, 1, page)

	page, _, _ = pageAt(segments, 100)
	assert.Equal(t, 2, page)

	page, _, _ = pageAt(segments, 900)
	assert.Equal(t, 3, page)

	_, _, ok = pageAt(nil, 10)
	assert.False(t, ok)
}

// stubRegistry returns a fixed document regardless of path, so segment
// handling can be exercised without format fixtures.
type stubRegistry struct {
	doc *domain.Document
}

func (r *stubRegistry) Extract(_ context.Context, _ string) (*domain.Document, error) {
	return r.doc, nil
}

func (r *stubRegistry) IsSupported(_ string) bool { return true }

func (r *stubRegistry) Supported() []string { return []string{"pdf"} }

func TestIngestFilesCarriesPageMetadata(t *testing.T) {
	// 2400 bytes with no sentence or paragraph breaks, so the splitter
	// hard-cuts at 1500 and the second chunk starts at 1350, inside the
	// second page's segment.
	text := strings.Repeat("granite ", 300)
	doc := &domain.Document{
		Name: "rocks.pdf",
		Path: "/kb/rocks.pdf",
		Type: domain.DocTypePDF,
		Text: text,
		Segments: []domain.Segment{
			{Start: 0, Page: 1, TotalPages: 2},
			{Start: 1000, Page: 2, TotalPages: 2},
		},
	}

	index := &mockIndex{}
	dir := filepath.Join(t.TempDir(), "knowledge")
	ing, err := NewIngest(&stubRegistry{doc: doc}, index,
		newTestRuntime(&mockEmbedder{embedding: []float32{1, 0}}, &mockGenerator{}), dir)
	require.NoError(t, err)

	path := writeFile(t, dir, "rocks.pdf", "placeholder")

	result, err := ing.IngestFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)

	require.Len(t, index.upserted, 2)
	first := index.upserted[0].Metadata
	second := index.upserted[1].Metadata
	assert.Equal(t, "rocks.pdf", first.Source)
	assert.Equal(t, domain.DocTypePDF, first.DocType)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 2, second.TotalPages)
}
