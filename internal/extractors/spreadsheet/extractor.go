// Package spreadsheet extracts text from spreadsheet documents.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks. Legacy binary .xls files are routed
// here too and fail the open with a per-file warning.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// ContentTypes returns the MIME types this extractor handles.
func (e *Extractor) ContentTypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
	}
}

// DisplayName returns the format label.
func (e *Extractor) DisplayName() string {
	return "Spreadsheet"
}

// Source reports that raw bytes are sufficient.
func (e *Extractor) Source() driven.ContentSource {
	return driven.ContentSource{}
}

// Extract concatenates all sheets. Cell values are tab-separated and fully
// blank rows are skipped.
func (e *Extractor) Extract(_ context.Context, data []byte, name string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	var result strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s in %s: %w", sheet, name, err)
		}

		result.WriteString(fmt.Sprintf("\n=== Sheet: %s ===\n", sheet))
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			result.WriteString(line)
			result.WriteString("\n")
		}
	}

	return strings.TrimSpace(result.String()), nil
}
