package cli

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
)

// mockChat is a mock implementation of driving.ChatService.
type mockChat struct {
	answer  *domain.Answer
	events  []domain.StreamEvent
	err     error
	cleared bool
}

func (m *mockChat) Answer(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockChat) AnswerStream(_ context.Context, _ string, emit func(domain.StreamEvent) error) error {
	for _, ev := range m.events {
		if err := emit(ev); err != nil {
			return err
		}
	}
	return m.err
}

func (m *mockChat) ClearMemory() { m.cleared = true }

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	batch   *driving.BatchResult
	files   []domain.FileInfo
	err     error
	cleared bool
}

func (m *mockIngestor) IngestFiles(_ context.Context, _ []string) (*driving.BatchResult, error) {
	return m.batch, m.err
}

func (m *mockIngestor) Refresh(_ context.Context) (*driving.BatchResult, error) {
	return m.batch, m.err
}

func (m *mockIngestor) ClearAll(_ context.Context) error {
	m.cleared = true
	return m.err
}

func (m *mockIngestor) ListFiles(_ string) ([]domain.FileInfo, error) {
	return m.files, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	err      error
	updates  map[string]any
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Update(_ context.Context, changes map[string]any) (domain.Settings, error) {
	m.updates = changes
	if m.err != nil {
		return domain.Settings{}, m.err
	}
	merged := m.settings.ToMap()
	for k, v := range changes {
		merged[k] = v
	}
	m.settings = domain.SettingsFromMap(merged)
	return m.settings, nil
}

// mockSearch is a mock implementation of driving.Searcher.
type mockSearch struct {
	matches []domain.Match
	err     error
}

func (m *mockSearch) Search(_ context.Context, _ string, _ int) ([]domain.Match, error) {
	return m.matches, m.err
}

// setupTestServices installs mock services and returns a restore func.
func setupTestServices() func() {
	oldChat := chatService
	oldIngest := ingestService
	oldSettings := settingsService
	oldSearch := searchService

	chatService = &mockChat{
		answer: &domain.Answer{
			Text:    "Granite is an igneous rock.",
			Sources: []domain.Source{{Name: "rocks.pdf", Path: "/kb/rocks.pdf"}},
		},
		events: []domain.StreamEvent{
			{Type: domain.EventSources, Sources: []domain.Source{{Name: "rocks.pdf", Path: "/kb/rocks.pdf"}}},
			{Type: domain.EventToken, Content: "Granite"},
			{Type: domain.EventToken, Content: " is igneous."},
			{Type: domain.EventDone},
		},
	}
	ingestService = &mockIngestor{
		batch: &driving.BatchResult{
			Files:  []driving.FileResult{{Name: "rocks.txt", Chunks: 3}},
			Chunks: 3,
		},
		files: []domain.FileInfo{{Name: "rocks.txt", Size: 120, Type: "txt"}},
	}
	settingsService = &mockSettingsService{settings: domain.DefaultSettings()}
	searchService = &mockSearch{}

	return func() {
		chatService = oldChat
		ingestService = oldIngest
		settingsService = oldSettings
		searchService = oldSearch
	}
}
