// Package xlsx extracts text from Excel workbooks.
//
// Every sheet is rendered under a "Sheet: <name>" heading with one line
// per row, cells joined by ", ". Sheet boundaries become paragraph
// breaks so chunking prefers them.
package xlsx

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".xlsx"}
}

// Extract renders every sheet of the workbook as text.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}
	defer f.Close()

	var b strings.Builder
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: sheet %q: %v", domain.ErrExtractionFailed, filepath.Base(path), sheet, err)
		}

		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Sheet: " + sheet)
		for _, row := range rows {
			b.WriteString("\n")
			b.WriteString(strings.Join(row, ", "))
		}
	}

	return &domain.Document{
		Name: filepath.Base(path),
		Path: path,
		Type: domain.DocTypeXLSX,
		Text: strings.TrimSpace(b.String()),
	}, nil
}
