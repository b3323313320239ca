// Package extractors dispatches files to the extractor for their type.
package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
	"github.com/lodestone-ai/lodestone/internal/extractors/csv"
	"github.com/lodestone-ai/lodestone/internal/extractors/docx"
	"github.com/lodestone-ai/lodestone/internal/extractors/pdf"
	"github.com/lodestone-ai/lodestone/internal/extractors/txt"
	"github.com/lodestone-ai/lodestone/internal/extractors/xlsx"
)

// Registry routes files to extractors by extension.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	return NewRegistry(pdf.New(), docx.New(), xlsx.New(), csv.New(), txt.New())
}

// Supported returns the registered extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether path has a registered extension.
// Hidden files are never supported.
func (r *Registry) IsSupported(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := r.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extract dispatches path to the extractor for its extension.
// Returns domain.ErrUnsupportedType for unregistered extensions and
// hidden files.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.Document, error) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: hidden file %s", domain.ErrUnsupportedType, name)
	}

	ext := strings.ToLower(filepath.Ext(name))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}
	return e.Extract(ctx, path)
}
