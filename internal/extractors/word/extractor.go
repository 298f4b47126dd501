// Package word extracts text from word-processor documents.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents. Legacy binary .doc files are routed
// here too; they fail the archive open and surface as a per-file warning
// rather than a run failure.
type Extractor struct{}

// New creates a new word-processor extractor.
func New() *Extractor {
	return &Extractor{}
}

// ContentTypes returns the MIME types this extractor handles.
func (e *Extractor) ContentTypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword",
	}
}

// DisplayName returns the format label.
func (e *Extractor) DisplayName() string {
	return "Word Document"
}

// Source reports that raw bytes are sufficient.
func (e *Extractor) Source() driven.ContentSource {
	return driven.ContentSource{}
}

// Extract opens the document as a ZIP archive and pulls paragraph text out
// of word/document.xml.
func (e *Extractor) Extract(_ context.Context, data []byte, name string) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open word document %s: %w", name, err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml in %s: %w", name, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml in %s: %w", name, err)
		}

		return parseDocumentXML(content)
	}

	return "", fmt.Errorf("no document.xml in %s", name)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML,
// one line per paragraph.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				result.WriteString(t.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
