package services

import (
	"sync"
	"time"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// SessionMemory is the in-process conversation buffer. It holds
// completed turns only: a turn is appended after the full reply exists,
// never during streaming.
type SessionMemory struct {
	mu    sync.Mutex
	turns []domain.ConversationTurn
}

// NewSessionMemory creates an empty conversation buffer.
func NewSessionMemory() *SessionMemory {
	return &SessionMemory{}
}

// Append records one completed exchange.
func (m *SessionMemory) Append(user, assistant string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, domain.ConversationTurn{
		User:      user,
		Assistant: assistant,
		CreatedAt: time.Now(),
	})
}

// Snapshot returns the turns in insertion order.
func (m *SessionMemory) Snapshot() []domain.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := make([]domain.ConversationTurn, len(m.turns))
	copy(turns, m.turns)
	return turns
}

// Clear empties the buffer.
func (m *SessionMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}

// Len returns the number of stored turns.
func (m *SessionMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}
