package mcp

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// mockSearcher is a mock implementation of driving.Searcher.
type mockSearcher struct {
	matches []domain.Match
	err     error
	lastK   int
}

func (m *mockSearcher) Search(_ context.Context, _ string, k int) ([]domain.Match, error) {
	m.lastK = k
	return m.matches, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer *domain.Answer
	err    error
}

func (m *mockChatService) Answer(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockChatService) AnswerStream(_ context.Context, _ string, _ func(domain.StreamEvent) error) error {
	return m.err
}

func (m *mockChatService) ClearMemory() {}
