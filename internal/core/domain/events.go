package domain

import (
	"encoding/json"
	"fmt"
)

// StreamEventType identifies a streaming answer event.
type StreamEventType string

// Stream event types, in the only order they may occur:
// one sources event, zero or more token events, then exactly one
// done or error event.
const (
	EventSources StreamEventType = "sources"
	EventToken   StreamEventType = "token"
	EventDone    StreamEventType = "done"
	EventError   StreamEventType = "error"
)

// StreamEvent is one message of a streaming answer.
// It serialises directly to the wire format.
type StreamEvent struct {
	Type StreamEventType `json:"type"`

	// Sources is set on sources events only.
	Sources []Source `json:"sources,omitempty"`

	// Content is set on token events only.
	Content string `json:"content,omitempty"`

	// Error is set on error events only.
	Error string `json:"error,omitempty"`
}

// MarshalJSON emits exactly the fields of the event's type: a sources
// event always carries its array (empty included), token and error
// events carry only their payload, done carries nothing.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventSources:
		sources := e.Sources
		if sources == nil {
			sources = []Source{}
		}
		return json.Marshal(struct {
			Type    StreamEventType `json:"type"`
			Sources []Source        `json:"sources"`
		}{e.Type, sources})
	case EventToken:
		return json.Marshal(struct {
			Type    StreamEventType `json:"type"`
			Content string          `json:"content"`
		}{e.Type, e.Content})
	case EventError:
		return json.Marshal(struct {
			Type  StreamEventType `json:"type"`
			Error string          `json:"error"`
		}{e.Type, e.Error})
	default:
		return json.Marshal(struct {
			Type StreamEventType `json:"type"`
		}{e.Type})
	}
}

// StreamState tracks the event order of a single answer stream so the
// sequence sources -> token* -> (done|error) can be asserted rather than
// inferred from call order.
type StreamState int

// Stream states.
const (
	// StreamStart is the initial state; only a sources event is legal.
	StreamStart StreamState = iota

	// StreamOpen follows the sources event; tokens, done and error are legal.
	StreamOpen

	// StreamClosed follows done or error; nothing further is legal.
	StreamClosed
)

// Advance validates ev against the current state and returns the next
// state. An illegal transition returns an error and leaves the stream
// conceptually closed.
func (s StreamState) Advance(ev StreamEventType) (StreamState, error) {
	switch s {
	case StreamStart:
		if ev == EventSources {
			return StreamOpen, nil
		}
	case StreamOpen:
		switch ev {
		case EventToken:
			return StreamOpen, nil
		case EventDone, EventError:
			return StreamClosed, nil
		}
	case StreamClosed:
		// Nothing is legal after done or error.
	}
	return StreamClosed, fmt.Errorf("illegal stream event %q in state %d", ev, s)
}
