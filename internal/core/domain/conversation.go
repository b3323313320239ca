package domain

import "time"

// ConversationTurn is one completed user/assistant exchange.
// Insertion order is the ordering guarantee for session memory.
type ConversationTurn struct {
	// User is the user's message.
	User string

	// Assistant is the full assistant reply.
	Assistant string

	// CreatedAt is when the turn was recorded.
	CreatedAt time.Time
}
