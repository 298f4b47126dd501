// Package plaintext extracts text and lightweight markup documents.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and lightweight markup documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// ContentTypes returns the MIME types this extractor handles.
func (e *Extractor) ContentTypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
		"text/csv",
	}
}

// DisplayName returns the format label.
func (e *Extractor) DisplayName() string {
	return "Text File"
}

// Source reports that raw bytes are sufficient.
func (e *Extractor) Source() driven.ContentSource {
	return driven.ContentSource{}
}

// Extract decodes the bytes as UTF-8, replacing invalid sequences rather
// than failing.
func (e *Extractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))
	return strings.TrimSpace(text), nil
}
