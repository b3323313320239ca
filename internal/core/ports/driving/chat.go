package driving

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// ChatService answers queries grounded in the indexed knowledge base.
type ChatService interface {
	// Answer returns a completed answer with its sources.
	Answer(ctx context.Context, query string) (*domain.Answer, error)

	// AnswerStream emits the answer as an ordered event sequence:
	// one sources event, zero or more token events, then exactly one
	// done or error event. emit is never called after done or error.
	// Cancelling ctx stops the stream without appending to memory.
	AnswerStream(ctx context.Context, query string, emit func(domain.StreamEvent) error) error

	// ClearMemory empties the session conversation buffer.
	ClearMemory()
}
