// Package txt extracts text from plain-text files.
package txt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain-text files.
type Extractor struct{}

// New creates a new plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract reads the file as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}

	return &domain.Document{
		Name: filepath.Base(path),
		Path: path,
		Type: domain.DocTypeTXT,
		Text: strings.TrimSpace(string(content)),
	}, nil
}
