package extractors

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/extractors/image"
	"github.com/meridian-labs/harvest/internal/extractors/pdf"
	"github.com/meridian-labs/harvest/internal/extractors/plaintext"
	"github.com/meridian-labs/harvest/internal/extractors/spreadsheet"
	"github.com/meridian-labs/harvest/internal/extractors/word"
)

// Store-proprietary document types that require an export round trip.
const (
	MimeGoogleDoc   = "application/vnd.google-apps.document"
	MimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
)

// Export target formats.
const (
	ExportMimeText = "text/plain"
	ExportMimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps content types to extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for every content type it declares.
// A later registration for the same type replaces the earlier one.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ct := range e.ContentTypes() {
		r.extractors[ct] = e
	}
}

// Lookup returns the extractor for a content type.
func (r *Registry) Lookup(contentType string) (driven.Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[contentType]
	return e, ok
}

// SupportedTypes returns all registered content types, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for ct := range r.extractors {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// Defaults builds a registry with every supported format wired in.
// ocrServiceURL may be empty; image extraction then degrades to warnings.
func Defaults(ocrServiceURL string) *Registry {
	r := NewRegistry()

	plain := plaintext.New()
	sheets := spreadsheet.New()

	r.Register(pdf.New())
	r.Register(word.New())
	r.Register(sheets)
	r.Register(plain)
	r.Register(image.New(ocrServiceURL))

	// Remote-native types: exported to a byte-level format first, then
	// routed through the matching extractor.
	r.Register(newExportRoute(MimeGoogleDoc, "Google Doc", ExportMimeText, plain))
	r.Register(newExportRoute(MimeGoogleSheet, "Google Sheet", ExportMimeXLSX, sheets))

	return r
}

// exportRoute adapts a byte-level extractor for a remote-native type.
type exportRoute struct {
	contentType string
	displayName string
	exportMIME  string
	inner       driven.Extractor
}

func newExportRoute(contentType, displayName, exportMIME string, inner driven.Extractor) *exportRoute {
	return &exportRoute{
		contentType: contentType,
		displayName: displayName,
		exportMIME:  exportMIME,
		inner:       inner,
	}
}

// ContentTypes returns the remote-native MIME type.
func (e *exportRoute) ContentTypes() []string {
	return []string{e.contentType}
}

// DisplayName returns the format label.
func (e *exportRoute) DisplayName() string {
	return e.displayName
}

// Source reports that the file must be exported before extraction.
func (e *exportRoute) Source() driven.ContentSource {
	return driven.ContentSource{Export: true, ExportMIME: e.exportMIME}
}

// Extract runs the exported bytes through the wrapped extractor.
func (e *exportRoute) Extract(ctx context.Context, data []byte, name string) (string, error) {
	return e.inner.Extract(ctx, data, name)
}
