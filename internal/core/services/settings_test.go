package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

func TestGetFillsDefaults(t *testing.T) {
	store := &mockSettingsStore{values: map[string]any{
		domain.KeyLLMModel: "llama3.2",
	}}
	svc := NewSettings(store, newTestRuntime(&mockEmbedder{}, &mockGenerator{}))

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", settings.LLMModel)
	assert.Equal(t, "http://localhost:11434", settings.BaseURL)
	assert.Equal(t, 1500, settings.ChunkSize)
	assert.Equal(t, 150, settings.ChunkOverlap)
	assert.Equal(t, 10, settings.TopK)
}

func TestUpdatePersistsAndRebuilds(t *testing.T) {
	store := &mockSettingsStore{}
	generator := &mockGenerator{models: []string{"llama3.2", "nomic-embed-text"}}
	runtime := newTestRuntime(&mockEmbedder{}, generator)
	svc := NewSettings(store, runtime)

	updated, err := svc.Update(context.Background(), map[string]any{
		domain.KeyLLMModel:  "llama3.2",
		domain.KeyChunkSize: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", updated.LLMModel)
	assert.Equal(t, 2000, updated.ChunkSize)

	// The full settings map is persisted, not only the changed keys.
	require.NotNil(t, store.saved)
	assert.Equal(t, "llama3.2", store.saved[domain.KeyLLMModel])
	assert.Equal(t, "nomic-embed-text", store.saved[domain.KeyEmbeddingModel])

	// The runtime now carries the new settings.
	assert.Equal(t, 2000, runtime.Settings().ChunkSize)
}

func TestUpdateRejectsUnknownKey(t *testing.T) {
	svc := NewSettings(&mockSettingsStore{}, newTestRuntime(&mockEmbedder{}, &mockGenerator{}))

	_, err := svc.Update(context.Background(), map[string]any{"no_such_key": 1})

	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
}

func TestUpdateRejectsBadChunkParams(t *testing.T) {
	svc := NewSettings(&mockSettingsStore{}, newTestRuntime(&mockEmbedder{}, &mockGenerator{}))

	_, err := svc.Update(context.Background(), map[string]any{
		domain.KeyChunkSize:    100,
		domain.KeyChunkOverlap: 100,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidChunkParams)
}

func TestUpdateRejectsUnknownModel(t *testing.T) {
	generator := &mockGenerator{models: []string{"llama3.2"}}
	store := &mockSettingsStore{}
	svc := NewSettings(store, newTestRuntime(&mockEmbedder{}, generator))

	_, err := svc.Update(context.Background(), map[string]any{
		domain.KeyLLMModel: "not-pulled",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidModel)
	assert.Nil(t, store.saved)
}

func TestUpdateSkipsModelCheckWhenProviderUnreachable(t *testing.T) {
	generator := &mockGenerator{listErr: errors.New("connection refused")}
	store := &mockSettingsStore{}
	svc := NewSettings(store, newTestRuntime(&mockEmbedder{}, generator))

	updated, err := svc.Update(context.Background(), map[string]any{
		domain.KeyLLMModel: "unverified-model",
	})
	require.NoError(t, err)

	assert.Equal(t, "unverified-model", updated.LLMModel)
	assert.NotNil(t, store.saved)
}

func TestUpdateUnchangedModelsSkipCheck(t *testing.T) {
	// No model keys change, so ListModels must not gate the update.
	generator := &mockGenerator{listErr: errors.New("unreachable")}
	store := &mockSettingsStore{}
	svc := NewSettings(store, newTestRuntime(&mockEmbedder{}, generator))

	_, err := svc.Update(context.Background(), map[string]any{
		domain.KeyTopK: 5,
	})
	assert.NoError(t, err)
}

func TestReloadRebuildsFromDisk(t *testing.T) {
	store := &mockSettingsStore{values: map[string]any{
		domain.KeyChunkSize: int64(3000),
	}}
	runtime := newTestRuntime(&mockEmbedder{}, &mockGenerator{})
	svc := NewSettings(store, runtime)

	require.NoError(t, svc.Reload())

	assert.Equal(t, 3000, runtime.Settings().ChunkSize)
}

func TestRuntimeRebuildClosesOldClients(t *testing.T) {
	old := &mockGenerator{}
	var current *mockGenerator
	build := func(s domain.Settings) Clients {
		g := &mockGenerator{}
		if current == nil {
			g = old
		}
		current = g
		return Clients{Embedder: &mockEmbedder{}, Generator: g, Settings: s}
	}

	runtime := NewRuntime(build, domain.DefaultSettings())
	runtime.Rebuild(domain.DefaultSettings())

	assert.True(t, old.closed)
	assert.False(t, current.closed)
}
