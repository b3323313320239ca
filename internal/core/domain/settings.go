package domain

import "fmt"

// Settings keys as stored in the settings file. Every read of the store
// returns all six keys; missing keys are filled from defaults.
const (
	KeyBaseURL        = "ollama_base_url"
	KeyEmbeddingModel = "embedding_model"
	KeyLLMModel       = "llm_model"
	KeyChunkSize      = "chunk_size"
	KeyChunkOverlap   = "chunk_overlap"
	KeyTopK           = "top_k_chunks"
)

// Settings holds the process-wide runtime configuration.
// Every field has a default and is never empty after a load.
type Settings struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// EmbeddingModel converts text to vectors.
	EmbeddingModel string

	// LLMModel generates answers.
	LLMModel string

	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int

	// ChunkOverlap is the number of bytes shared by adjacent chunks.
	ChunkOverlap int

	// TopK is the number of chunks retrieved per query.
	TopK int
}

// DefaultSettings returns settings with the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:        "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		LLMModel:       "phi4:14b-fp16",
		ChunkSize:      1500,
		ChunkOverlap:   150,
		TopK:           10,
	}
}

// Validate checks settings invariants. Chunk parameter violations return
// ErrInvalidChunkParams; everything else returns ErrInvalidSettings.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidChunkParams, s.ChunkSize)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be in [0, chunk_size %d)",
			ErrInvalidChunkParams, s.ChunkOverlap, s.ChunkSize)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top_k_chunks must be positive, got %d", ErrInvalidSettings, s.TopK)
	}
	if s.BaseURL == "" {
		return fmt.Errorf("%w: ollama_base_url is empty", ErrInvalidSettings)
	}
	if s.EmbeddingModel == "" {
		return fmt.Errorf("%w: embedding_model is empty", ErrInvalidSettings)
	}
	if s.LLMModel == "" {
		return fmt.Errorf("%w: llm_model is empty", ErrInvalidSettings)
	}
	return nil
}

// ToMap converts settings to the stored key-value form.
func (s Settings) ToMap() map[string]any {
	return map[string]any{
		KeyBaseURL:        s.BaseURL,
		KeyEmbeddingModel: s.EmbeddingModel,
		KeyLLMModel:       s.LLMModel,
		KeyChunkSize:      s.ChunkSize,
		KeyChunkOverlap:   s.ChunkOverlap,
		KeyTopK:           s.TopK,
	}
}

// SettingsFromMap builds Settings from the stored key-value form,
// filling any missing or mistyped key from defaults.
func SettingsFromMap(m map[string]any) Settings {
	s := DefaultSettings()
	if v, ok := stringVal(m[KeyBaseURL]); ok {
		s.BaseURL = v
	}
	if v, ok := stringVal(m[KeyEmbeddingModel]); ok {
		s.EmbeddingModel = v
	}
	if v, ok := stringVal(m[KeyLLMModel]); ok {
		s.LLMModel = v
	}
	if v, ok := intVal(m[KeyChunkSize]); ok {
		s.ChunkSize = v
	}
	if v, ok := intVal(m[KeyChunkOverlap]); ok {
		s.ChunkOverlap = v
	}
	if v, ok := intVal(m[KeyTopK]); ok {
		s.TopK = v
	}
	return s
}

func stringVal(v any) (string, bool) {
	str, ok := v.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

func intVal(v any) (int, bool) {
	// TOML integers are parsed as int64.
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
