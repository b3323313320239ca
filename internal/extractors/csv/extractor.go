// Package csv extracts text from comma-separated value files.
//
// Each record is rendered as one line with cells joined by ", " so the
// row structure survives chunking as sentence-like units.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV files.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".csv"}
}

// Extract parses the file and renders one text line per record.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}
	defer f.Close()

	reader := stdcsv.NewReader(f)
	// Ragged rows are common in exported spreadsheets.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}

	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(record, ", "))
	}

	return &domain.Document{
		Name: filepath.Base(path),
		Path: path,
		Type: domain.DocTypeCSV,
		Text: strings.TrimSpace(b.String()),
	}, nil
}
