package services

import (
	"context"
	"sync"

	"github.com/lodestone-ai/lodestone/internal/chunker"
	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	failures  int // first N calls fail with embedErr
	calls     int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.embedErr != nil && (m.failures == 0 || m.calls <= m.failures) {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		embedding, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		result[i] = embedding
	}
	return result, nil
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockGenerator implements driven.GenerationService for testing.
type mockGenerator struct {
	response  string
	genErr    error
	tokens    []string
	streamErr error // returned after emitting tokens
	models    []string
	listErr   error
	prompts   []string
	closed    bool
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockGenerator) GenerateStream(ctx context.Context, prompt string, onToken func(string) error) error {
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return m.genErr
	}
	for _, token := range m.tokens {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onToken(token); err != nil {
			return err
		}
	}
	return m.streamErr
}

func (m *mockGenerator) ListModels(_ context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.models, nil
}

func (m *mockGenerator) ModelName() string            { return "mock-llm" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { m.closed = true; return nil }

// mockIndex implements driven.VectorIndex for testing.
type mockIndex struct {
	mu           sync.Mutex
	searchResult driven.SearchResult
	searchErr    error
	upsertErr    error
	destroyErr   error
	upserted     []driven.Entry
	destroyed    int
	cleared      int
}

func (m *mockIndex) Open(_ context.Context) error { return nil }

func (m *mockIndex) Upsert(_ context.Context, entries []driven.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, entries...)
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) (driven.SearchResult, error) {
	if m.searchErr != nil {
		return driven.SearchResult{}, m.searchErr
	}
	result := m.searchResult
	if k > 0 && len(result.Matches) > k {
		result.Matches = result.Matches[:k]
	}
	return result, nil
}

func (m *mockIndex) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	return nil
}

func (m *mockIndex) Destroy(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.destroyed++
	m.upserted = nil
	return nil
}

func (m *mockIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserted), nil
}

func (m *mockIndex) Close() error { return nil }

// mockSettingsStore implements driven.SettingsStore for testing.
type mockSettingsStore struct {
	values  map[string]any
	loadErr error
	saveErr error
	saved   map[string]any
}

func (m *mockSettingsStore) Load() (map[string]any, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.values == nil {
		return map[string]any{}, nil
	}
	return m.values, nil
}

func (m *mockSettingsStore) Save(values map[string]any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = values
	m.values = values
	return nil
}

func (m *mockSettingsStore) Path() string { return "/tmp/settings.toml" }

// --- Test helpers ---

func newTestRuntime(embedder driven.EmbeddingService, generator driven.GenerationService) *Runtime {
	build := func(s domain.Settings) Clients {
		return Clients{
			Embedder:  embedder,
			Generator: generator,
			Splitter:  chunker.New(chunker.WithSize(s.ChunkSize), chunker.WithOverlap(s.ChunkOverlap)),
			Settings:  s,
		}
	}
	return NewRuntime(build, domain.DefaultSettings())
}

func matchFor(source, text string) domain.Match {
	return domain.Match{
		Chunk: domain.Chunk{
			ID:   source + "-chunk",
			Text: text,
			Metadata: domain.ChunkMetadata{
				Source:  source,
				DocType: domain.DocTypeTXT,
				Path:    "/kb/" + source,
			},
		},
		Score: 0.9,
	}
}
