package services

import (
	"context"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driving"
	"github.com/lodestone-ai/lodestone/internal/logger"
)

// Ensure Chat implements the interfaces.
var (
	_ driving.ChatService = (*Chat)(nil)
	_ driving.Searcher    = (*Chat)(nil)
)

// Chat answers queries grounded in the indexed knowledge base.
type Chat struct {
	runtime *Runtime
	index   driven.VectorIndex
	memory  *SessionMemory
}

// NewChat creates the chat service with an empty session memory.
func NewChat(runtime *Runtime, index driven.VectorIndex) *Chat {
	return &Chat{
		runtime: runtime,
		index:   index,
		memory:  NewSessionMemory(),
	}
}

// Answer returns a completed answer with its sources. The turn is
// recorded in session memory once the reply exists.
func (c *Chat) Answer(ctx context.Context, query string) (*domain.Answer, error) {
	clients := c.runtime.Snapshot()

	matches, err := c.retrieve(ctx, clients, query)
	if err != nil {
		return nil, err
	}

	prompt, sources := c.assemble(query, matches)
	text, err := clients.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.memory.Append(query, text)
	return &domain.Answer{Text: text, Sources: sources}, nil
}

// AnswerStream emits the answer as one sources event, zero or more
// token events, then exactly one done or error event. A cancelled
// context stops the stream and records nothing in memory; only a stream
// that reaches done appends its turn.
func (c *Chat) AnswerStream(ctx context.Context, query string, emit func(domain.StreamEvent) error) error {
	clients := c.runtime.Snapshot()
	state := domain.StreamStart

	send := func(ev domain.StreamEvent) error {
		next, err := state.Advance(ev.Type)
		if err != nil {
			return err
		}
		state = next
		return emit(ev)
	}

	matches, err := c.retrieve(ctx, clients, query)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The ordering contract still holds on failure: sources, then error.
		if sendErr := send(domain.StreamEvent{Type: domain.EventSources, Sources: []domain.Source{}}); sendErr != nil {
			return sendErr
		}
		if sendErr := send(domain.StreamEvent{Type: domain.EventError, Error: err.Error()}); sendErr != nil {
			return sendErr
		}
		return err
	}

	prompt, sources := c.assemble(query, matches)
	if err := send(domain.StreamEvent{Type: domain.EventSources, Sources: sources}); err != nil {
		return err
	}

	var reply strings.Builder
	err = clients.Generator.GenerateStream(ctx, prompt, func(token string) error {
		reply.WriteString(token)
		return send(domain.StreamEvent{Type: domain.EventToken, Content: token})
	})
	if err != nil {
		if ctx.Err() != nil {
			// Client went away: nothing is emitted and nothing is remembered.
			return ctx.Err()
		}
		if sendErr := send(domain.StreamEvent{Type: domain.EventError, Error: err.Error()}); sendErr != nil {
			return sendErr
		}
		return err
	}

	if err := send(domain.StreamEvent{Type: domain.EventDone}); err != nil {
		return err
	}
	c.memory.Append(query, reply.String())
	return nil
}

// Search returns ranked chunks for query without generating an answer.
func (c *Chat) Search(ctx context.Context, query string, k int) ([]domain.Match, error) {
	clients := c.runtime.Snapshot()
	if k <= 0 {
		k = clients.Settings.TopK
	}

	vector, err := clients.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	result, err := c.index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	return result.Matches, nil
}

// ClearMemory empties the session conversation buffer.
func (c *Chat) ClearMemory() {
	c.memory.Clear()
	logger.Info("session memory cleared")
}

// retrieve embeds the query and searches the index. A missing
// collection yields no matches and no error.
func (c *Chat) retrieve(ctx context.Context, clients Clients, query string) ([]domain.Match, error) {
	vector, err := clients.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := c.index.Search(ctx, vector, clients.Settings.TopK)
	if err != nil {
		return nil, err
	}
	if result.IndexMissing {
		logger.Debug("no collection yet, answering without context")
		return nil, nil
	}
	logger.Debug("retrieved %d chunks for query", len(result.Matches))
	return result.Matches, nil
}

// assemble picks the grounded or the no-context prompt and the sources
// that go with it.
func (c *Chat) assemble(query string, matches []domain.Match) (string, []domain.Source) {
	if len(matches) == 0 {
		return buildNoContextPrompt(query), []domain.Source{}
	}
	return buildPrompt(query, matches, c.memory.Snapshot()), domain.DedupeSources(matches)
}
