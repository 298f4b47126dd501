// Package snapshot provides the JSONL snapshot writer. Each harvest run
// exports its chunks as one timestamp-named newline-delimited JSON file,
// the handoff artifact for downstream search-index importers.
package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// DefaultEmbeddingField is the snapshot field name holding the vector.
// It is configurable because the downstream importer's schema dictates it.
const DefaultEmbeddingField = "embedding"

// filenameLayout names snapshots by run start time, sortable lexically.
const filenameLayout = "20060102_150405"

// Writer writes run snapshots as JSONL files into a directory.
type Writer struct {
	dir            string
	embeddingField string
}

var _ driven.SnapshotWriter = (*Writer)(nil)

// Option configures a Writer.
type Option func(*Writer)

// WithEmbeddingField overrides the snapshot field name for the vector.
func WithEmbeddingField(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.embeddingField = name
		}
	}
}

// NewWriter creates a snapshot writer targeting the given directory.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:            dir,
		embeddingField: DefaultEmbeddingField,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write exports the chunks to a timestamp-named JSONL file and returns
// its path. An empty chunk set produces an empty file: a run that found
// nothing to process still leaves a dated marker for downstream tooling.
func (w *Writer) Write(ctx context.Context, chunks []domain.EmbeddedChunk) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	name := fmt.Sprintf("documents_%s.jsonl", time.Now().UTC().Format(filenameLayout))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := enc.Encode(w.row(chunk)); err != nil {
			return "", fmt.Errorf("encoding chunk %s: %w", chunk.ID, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("flushing snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("syncing snapshot: %w", err)
	}
	return path, nil
}

// row builds one snapshot record. The embedding key is dynamic, so the
// record is a map rather than a struct; keys serialise in sorted order.
func (w *Writer) row(chunk domain.EmbeddedChunk) map[string]any {
	row := map[string]any{
		"id":            chunk.ID,
		"document_id":   chunk.DocumentID,
		"chunk_index":   chunk.Ordinal,
		"content":       chunk.Content,
		"document_name": chunk.DocumentName,
		"document_type": chunk.ContentType,
		"file_mtime":    chunk.DocumentMTime,
		"web_link":      chunk.WebLink,
		"document_path": chunk.DocumentPath,
		"content_hash":  chunk.ContentHash,
		"chunk_size":    chunk.Length,
	}
	row[w.embeddingField] = chunk.Embedding
	return row
}
