// Command lodestone answers questions grounded in local documents,
// using Ollama for embeddings and generation.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lodestone-ai/lodestone/internal/adapters/driven/config/file"
	embeddingollama "github.com/lodestone-ai/lodestone/internal/adapters/driven/embedding/ollama"
	"github.com/lodestone-ai/lodestone/internal/adapters/driven/index/sqlite"
	llmollama "github.com/lodestone-ai/lodestone/internal/adapters/driven/llm/ollama"
	"github.com/lodestone-ai/lodestone/internal/adapters/driving/cli"
	"github.com/lodestone-ai/lodestone/internal/chunker"
	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/services"
	"github.com/lodestone-ai/lodestone/internal/extractors"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

func main() {
	if err := cli.Execute(bootstrap); err != nil {
		os.Exit(1)
	}
}

// bootstrap builds the full service graph rooted at dataDir.
func bootstrap(dataDir string) (*cli.Services, func(), error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lodestone")
	}

	store, err := file.NewSettingsStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening settings store: %w", err)
	}
	stored, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	settings := domain.SettingsFromMap(stored)
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	index := sqlite.New(dataDir)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := index.Open(ctx); err != nil {
		return nil, nil, fmt.Errorf("opening index: %w", err)
	}

	runtime := services.NewRuntime(buildClients, settings)

	chatService := services.NewChat(runtime, index)
	settingsService := services.NewSettings(store, runtime)

	knowledgeDir := filepath.Join(dataDir, "knowledge")
	ingestService, err := services.NewIngest(extractors.NewDefaultRegistry(), index, runtime, knowledgeDir)
	if err != nil {
		index.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("creating ingest service: %w", err)
	}

	// External edits to the settings file take effect without a restart.
	watcher, err := file.NewWatcher(store.Path(), func() {
		if err := settingsService.Reload(); err != nil {
			logger.Warn("reloading settings: %v", err)
		}
	})
	if err != nil {
		index.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("watching settings file: %w", err)
	}

	cleanup := func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("closing settings watcher: %v", err)
		}
		if err := runtime.Close(); err != nil {
			logger.Warn("closing runtime: %v", err)
		}
		if err := index.Close(); err != nil {
			logger.Warn("closing index: %v", err)
		}
	}

	return &cli.Services{
		Chat:     chatService,
		Ingestor: ingestService,
		Settings: settingsService,
		Search:   chatService,
	}, cleanup, nil
}

// buildClients derives the settings-dependent collaborators.
func buildClients(settings domain.Settings) services.Clients {
	return services.Clients{
		Embedder: embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.EmbeddingModel,
		}),
		Generator: llmollama.NewGenerationService(llmollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.LLMModel,
		}),
		Splitter: chunker.New(
			chunker.WithSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
		Settings: settings,
	}
}
