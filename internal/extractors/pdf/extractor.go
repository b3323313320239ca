// Package pdf extracts text from PDF files page by page.
//
// Page boundaries are kept as segments with byte offsets into the
// joined text, so chunks can later be attributed to the page they
// start on.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF files.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract pulls plain text from every page. Pages that yield no text
// are skipped; a document where every page is empty (a scanned PDF
// without a text layer) fails extraction.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}
	defer f.Close()

	total := reader.NumPage()
	var b strings.Builder
	var segments []domain.Segment

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		segments = append(segments, domain.Segment{
			Start:      b.Len(),
			Page:       i,
			TotalPages: total,
		})
		b.WriteString(text)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s: no extractable text", domain.ErrExtractionFailed, filepath.Base(path))
	}

	return &domain.Document{
		Name:     filepath.Base(path),
		Path:     path,
		Type:     domain.DocTypePDF,
		Text:     b.String(),
		Segments: segments,
	}, nil
}
