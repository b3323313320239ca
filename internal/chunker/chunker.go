// Package chunker splits extracted text into overlapping passages.
//
// Chunks are cut with a fixed stride (next start = end - overlap) so that
// adjacent chunks share exactly the configured overlap and the original
// text can be reconstructed by dropping the overlap from every chunk but
// the first. Within that stride, a chunk end inside the text is moved
// backwards onto the nearest paragraph break, then sentence break, before
// falling back to a hard cut on a rune boundary.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1500

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 150

// Piece is one chunk of text with its offset in the source.
type Piece struct {
	// Text is the chunk content.
	Text string

	// Start is the byte offset of Text within the input.
	Start int
}

// Splitter produces overlapping chunks of bounded size.
type Splitter struct {
	size    int
	overlap int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithSize sets the maximum chunk size in bytes.
func WithSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
// overlap >= size is rejected at the settings boundary; the splitter
// still clamps defensively so it can never stall.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.size {
		s.overlap = s.size / 4
	}
	return s
}

// Split cuts text into pieces of at most the configured size.
// Text no longer than one chunk yields exactly one piece. Empty text
// yields none.
func (s *Splitter) Split(text string) []Piece {
	if text == "" {
		return nil
	}
	if len(text) <= s.size {
		return []Piece{{Text: text, Start: 0}}
	}

	pieces := make([]Piece, 0, len(text)/(s.size-s.overlap)+1)
	start := 0
	for {
		end := start + s.size
		if end >= len(text) {
			pieces = append(pieces, Piece{Text: text[start:], Start: start})
			return pieces
		}

		end = s.breakPoint(text, start, end)
		pieces = append(pieces, Piece{Text: text[start:end], Start: start})
		start = end - s.overlap
	}
}

// Chunk splits text and attaches an identical copy of meta to every
// chunk. Metadata is copied by value: mutating one chunk's metadata
// never affects another.
func (s *Splitter) Chunk(text string, meta domain.ChunkMetadata) []domain.Chunk {
	pieces := s.Split(text)
	chunks := make([]domain.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.Chunk{
			ID:       uuid.New().String(),
			Text:     p.Text,
			Metadata: meta,
		}
	}
	return chunks
}

// breakPoint moves a prospective chunk end backwards onto a natural
// boundary. The result stays strictly after start+overlap so the next
// chunk always advances.
func (s *Splitter) breakPoint(text string, start, end int) int {
	min := start + s.overlap + 1
	window := text[min:end]

	// Prefer a paragraph break; the chunk ends after it.
	if i := strings.LastIndex(window, "\n\n"); i >= 0 {
		return min + i + 2
	}

	// Then a sentence terminator.
	if i := lastSentenceEnd(window); i >= 0 {
		return min + i + 1
	}

	// Hard cut, backed off so a multi-byte character is never split
	// across the chunk end.
	for end > min && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}

// lastSentenceEnd returns the index of the last sentence-ending byte in
// window, or -1.
func lastSentenceEnd(window string) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '!', '?', '\n':
			return i
		}
	}
	return -1
}
