package services

import (
	"context"
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Ensure Settings implements the interface.
var _ driving.SettingsService = (*Settings)(nil)

// Settings reads and updates the runtime configuration.
type Settings struct {
	store   driven.SettingsStore
	runtime *Runtime
}

// NewSettings creates the settings service.
func NewSettings(store driven.SettingsStore, runtime *Runtime) *Settings {
	return &Settings{store: store, runtime: runtime}
}

// Get returns the current settings with defaults filling absent keys.
func (s *Settings) Get() (domain.Settings, error) {
	values, err := s.store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return domain.SettingsFromMap(values), nil
}

// Update validates and persists the changed keys, then rebuilds the
// dependent clients. Model changes are checked against the provider
// when it is reachable; an unreachable provider skips the check rather
// than blocking the update.
func (s *Settings) Update(ctx context.Context, changes map[string]any) (domain.Settings, error) {
	current, err := s.Get()
	if err != nil {
		return domain.Settings{}, err
	}

	merged := current.ToMap()
	for key, value := range changes {
		if _, known := merged[key]; !known {
			return domain.Settings{}, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSettings, key)
		}
		merged[key] = value
	}
	next := domain.SettingsFromMap(merged)

	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}
	if err := s.checkModels(ctx, current, next); err != nil {
		return domain.Settings{}, err
	}

	if err := s.store.Save(next.ToMap()); err != nil {
		return domain.Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	s.runtime.Rebuild(next)
	return next, nil
}

// Reload re-reads the settings file and rebuilds the clients. Used when
// the file changes on disk outside this process.
func (s *Settings) Reload() error {
	next, err := s.Get()
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.runtime.Rebuild(next)
	return nil
}

// checkModels verifies changed model names against the provider's model
// list. Best effort: listing failures are logged, not returned.
func (s *Settings) checkModels(ctx context.Context, current, next domain.Settings) error {
	if next.LLMModel == current.LLMModel && next.EmbeddingModel == current.EmbeddingModel {
		return nil
	}

	models, err := s.runtime.Snapshot().Generator.ListModels(ctx)
	if err != nil {
		logger.Warn("skipping model check, provider unreachable: %v", err)
		return nil
	}

	available := make(map[string]bool, len(models))
	for _, m := range models {
		available[m] = true
	}

	if next.LLMModel != current.LLMModel && !available[next.LLMModel] {
		return fmt.Errorf("%w: %s", domain.ErrInvalidModel, next.LLMModel)
	}
	if next.EmbeddingModel != current.EmbeddingModel && !available[next.EmbeddingModel] {
		return fmt.Errorf("%w: %s", domain.ErrInvalidModel, next.EmbeddingModel)
	}
	return nil
}
