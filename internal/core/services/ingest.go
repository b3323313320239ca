package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Ensure Ingest implements the interface.
var _ driving.Ingestor = (*Ingest)(nil)

// Embedding retry bounds during ingestion. The embedding client itself
// never retries.
const (
	embedAttempts = 3
	embedBackoff  = 250 * time.Millisecond
)

// ExtractorRegistry routes files to the extractor for their type.
type ExtractorRegistry interface {
	Extract(ctx context.Context, path string) (*domain.Document, error)
	IsSupported(path string) bool
	Supported() []string
}

// Ingest feeds documents into the vector index.
//
// Administrative operations (Refresh, ClearAll) are mutually exclusive:
// a second one started while the first runs fails fast with
// domain.ErrIndexBusy instead of queueing.
type Ingest struct {
	registry     ExtractorRegistry
	index        driven.VectorIndex
	runtime      *Runtime
	knowledgeDir string
	admin        atomic.Bool
}

// NewIngest creates the ingestion service. Knowledge-base files live in
// knowledgeDir; ingested files are copied there so Refresh can find them.
func NewIngest(registry ExtractorRegistry, index driven.VectorIndex, runtime *Runtime, knowledgeDir string) (*Ingest, error) {
	if err := os.MkdirAll(knowledgeDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating knowledge directory: %w", err)
	}
	return &Ingest{
		registry:     registry,
		index:        index,
		runtime:      runtime,
		knowledgeDir: knowledgeDir,
	}, nil
}

// IngestFiles extracts, chunks, embeds and indexes the given files.
// One bad file never aborts the batch; its error is recorded in the
// per-file result instead.
func (s *Ingest) IngestFiles(ctx context.Context, paths []string) (*driving.BatchResult, error) {
	result := &driving.BatchResult{}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := filepath.Base(path)
		chunks, err := s.ingestFile(ctx, path)
		if err != nil {
			logger.Warn("ingesting %s: %v", name, err)
		} else {
			logger.Info("ingested %s: %d chunks", name, chunks)
		}

		result.Files = append(result.Files, driving.FileResult{Name: name, Chunks: chunks, Err: err})
		result.Chunks += chunks
	}
	return result, nil
}

// Refresh destroys the index and re-ingests every supported file in the
// knowledge directory.
func (s *Ingest) Refresh(ctx context.Context) (*driving.BatchResult, error) {
	if !s.admin.CompareAndSwap(false, true) {
		return nil, domain.ErrIndexBusy
	}
	defer s.admin.Store(false)

	logger.Section("Refreshing index")
	if err := s.index.Destroy(ctx); err != nil {
		return nil, err
	}

	paths, err := s.knowledgePaths()
	if err != nil {
		return nil, err
	}
	return s.IngestFiles(ctx, paths)
}

// ClearAll destroys the index and removes all knowledge-base files.
// File removal is best effort; a file that cannot be removed is logged
// and skipped.
func (s *Ingest) ClearAll(ctx context.Context) error {
	if !s.admin.CompareAndSwap(false, true) {
		return domain.ErrIndexBusy
	}
	defer s.admin.Store(false)

	logger.Section("Clearing knowledge base")
	if err := s.index.Destroy(ctx); err != nil {
		return err
	}

	paths, err := s.knowledgePaths()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			logger.Warn("removing %s: %v", path, err)
		}
	}
	return nil
}

// ListFiles returns the knowledge-base files matching query, sorted by
// name. An empty query matches everything.
func (s *Ingest) ListFiles(query string) ([]domain.FileInfo, error) {
	entries, err := os.ReadDir(s.knowledgeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading knowledge directory: %w", err)
	}

	query = strings.ToLower(query)
	var files []domain.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !s.registry.IsSupported(entry.Name()) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(entry.Name()), query) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.FileInfo{
			Name: entry.Name(),
			Size: info.Size(),
			Type: strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), "."),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ingestFile runs the full pipeline for one file and returns the number
// of chunks indexed.
func (s *Ingest) ingestFile(ctx context.Context, path string) (int, error) {
	if !s.registry.IsSupported(path) {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	local, err := s.intake(path)
	if err != nil {
		return 0, err
	}

	doc, err := s.registry.Extract(ctx, local)
	if err != nil {
		return 0, err
	}
	if doc.Text == "" {
		return 0, nil
	}

	clients := s.runtime.Snapshot()
	pieces := clients.Splitter.Split(doc.Text)

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}
	embeddings, err := s.embedWithRetry(ctx, clients, texts)
	if err != nil {
		return 0, err
	}

	entries := make([]driven.Entry, len(pieces))
	for i, p := range pieces {
		meta := domain.ChunkMetadata{
			Source:  doc.Name,
			DocType: doc.Type,
			Path:    doc.Path,
		}
		if page, total, ok := pageAt(doc.Segments, p.Start); ok {
			meta.Page = page
			meta.TotalPages = total
		}
		entries[i] = driven.Entry{
			ID:        uuid.New().String(),
			Embedding: embeddings[i],
			Text:      p.Text,
			Metadata:  meta,
		}
	}

	if err := s.index.Upsert(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// intake copies a file into the knowledge directory so later Refresh
// and ClearAll operations cover it. Files already there are used as is.
func (s *Ingest) intake(path string) (string, error) {
	dest := filepath.Join(s.knowledgeDir, filepath.Base(path))
	if abs, err := filepath.Abs(path); err == nil && abs == dest {
		return dest, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("copying into knowledge directory: %w", err)
	}
	return dest, nil
}

// embedWithRetry embeds the chunk texts, retrying transient provider
// failures with doubling backoff.
func (s *Ingest) embedWithRetry(ctx context.Context, clients Clients, texts []string) ([][]float32, error) {
	backoff := embedBackoff
	var lastErr error
	for attempt := 0; attempt < embedAttempts; attempt++ {
		if attempt > 0 {
			logger.Debug("embedding retry %d after %v: %v", attempt, backoff, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		embeddings, err := clients.Embedder.EmbedBatch(ctx, texts)
		if err == nil {
			return embeddings, nil
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// knowledgePaths lists the supported files in the knowledge directory.
func (s *Ingest) knowledgePaths() ([]string, error) {
	entries, err := os.ReadDir(s.knowledgeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading knowledge directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !s.registry.IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.knowledgeDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// pageAt resolves the page a chunk starts on from the document's
// segment offsets.
func pageAt(segments []domain.Segment, offset int) (page, total int, ok bool) {
	if len(segments) == 0 {
		return 0, 0, false
	}
	current := segments[0]
	for _, seg := range segments[1:] {
		if seg.Start > offset {
			break
		}
		current = seg
	}
	return current.Page, current.TotalPages, true
}
