// Package services implements the application core behind the driving
// ports: chat, ingestion and settings.
package services

import (
	"sync"

	"github.com/lodestone-ai/lodestone/internal/chunker"
	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Clients is one consistent set of settings-derived collaborators.
// A snapshot stays valid for the request that took it even if the
// runtime is rebuilt mid-flight.
type Clients struct {
	// Embedder converts text to vectors.
	Embedder driven.EmbeddingService

	// Generator produces answer text.
	Generator driven.GenerationService

	// Splitter cuts text with the settings' chunk parameters.
	Splitter *chunker.Splitter

	// Settings are the values the set was built from.
	Settings domain.Settings
}

// ClientBuilder constructs a client set from settings.
type ClientBuilder func(domain.Settings) Clients

// Runtime holds the current client set and swaps it atomically when
// settings change.
type Runtime struct {
	mu      sync.RWMutex
	build   ClientBuilder
	clients Clients
}

// NewRuntime builds the initial client set from settings.
func NewRuntime(build ClientBuilder, settings domain.Settings) *Runtime {
	return &Runtime{
		build:   build,
		clients: build(settings),
	}
}

// Snapshot returns the current client set.
func (r *Runtime) Snapshot() Clients {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients
}

// Settings returns the settings the current client set was built from.
func (r *Runtime) Settings() domain.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients.Settings
}

// Rebuild replaces the client set with one built from settings.
// In-flight requests keep the snapshot they already took; the old
// clients are closed once the swap is done.
func (r *Runtime) Rebuild(settings domain.Settings) {
	next := r.build(settings)

	r.mu.Lock()
	old := r.clients
	r.clients = next
	r.mu.Unlock()

	if old.Embedder != nil {
		if err := old.Embedder.Close(); err != nil {
			logger.Warn("closing embedder: %v", err)
		}
	}
	if old.Generator != nil {
		if err := old.Generator.Close(); err != nil {
			logger.Warn("closing generator: %v", err)
		}
	}
	logger.Debug("runtime rebuilt: embedding=%s llm=%s", settings.EmbeddingModel, settings.LLMModel)
}

// Close releases the current client set.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clients.Embedder != nil {
		r.clients.Embedder.Close()
	}
	if r.clients.Generator != nil {
		r.clients.Generator.Close()
	}
	return nil
}
