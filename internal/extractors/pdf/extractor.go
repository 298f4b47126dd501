// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// ContentTypes returns the MIME types this extractor handles.
func (e *Extractor) ContentTypes() []string {
	return []string{"application/pdf"}
}

// DisplayName returns the format label.
func (e *Extractor) DisplayName() string {
	return "PDF"
}

// Source reports that raw bytes are sufficient.
func (e *Extractor) Source() driven.ContentSource {
	return driven.ContentSource{}
}

// Extract concatenates plain text from every page. A page that fails text
// extraction is skipped; a document that cannot be opened is an error.
func (e *Extractor) Extract(_ context.Context, data []byte, name string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", name, err)
	}

	var result strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Debug("pdf %s: page %d text extraction failed: %v", name, i, err)
			continue
		}

		result.WriteString(text)
		result.WriteString("\n")
	}

	return strings.TrimSpace(result.String()), nil
}
