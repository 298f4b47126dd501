package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

func sampleChunks() []domain.EmbeddedChunk {
	return []domain.EmbeddedChunk{
		{
			Chunk: domain.Chunk{
				ID:            "doc-1_chunk_0",
				DocumentID:    "doc-1",
				Ordinal:       0,
				Content:       "first chunk",
				DocumentName:  "notes.txt",
				ContentType:   "text/plain",
				DocumentMTime: "2026-01-01T00:00:00Z",
				WebLink:       "https://example.com/doc-1",
				DocumentPath:  "/notes.txt",
				ContentHash:   "h1",
				Length:        11,
			},
			Embedding: []float32{0.1, 0.2},
		},
		{
			Chunk:     domain.Chunk{ID: "doc-1_chunk_1", DocumentID: "doc-1", Ordinal: 1, Content: "second chunk"},
			Embedding: []float32{0.3, 0.4},
		},
	}
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		lines = append(lines, row)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(context.Background(), sampleChunks())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^documents_\d{8}_\d{6}\.jsonl$`), filepath.Base(path))

	lines := readLines(t, path)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "doc-1_chunk_0", first["id"])
	assert.Equal(t, "doc-1", first["document_id"])
	assert.Equal(t, float64(0), first["chunk_index"])
	assert.Equal(t, "first chunk", first["content"])
	assert.Equal(t, "notes.txt", first["document_name"])
	assert.Equal(t, "text/plain", first["document_type"])
	assert.Equal(t, "2026-01-01T00:00:00Z", first["file_mtime"])
	assert.Equal(t, "/notes.txt", first["document_path"])
	assert.Equal(t, "h1", first["content_hash"])
	assert.Equal(t, float64(11), first["chunk_size"])

	embedding, ok := first["embedding"].([]any)
	require.True(t, ok)
	assert.Len(t, embedding, 2)
}

func TestWriter_Write_EmptyRun(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(context.Background(), nil)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "an empty run writes an empty snapshot file")
}

func TestWriter_Write_CustomEmbeddingField(t *testing.T) {
	w := NewWriter(t.TempDir(), WithEmbeddingField("vector"))

	path, err := w.Write(context.Background(), sampleChunks())
	require.NoError(t, err)

	lines := readLines(t, path)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "vector")
	assert.NotContains(t, lines[0], "embedding")
}

func TestWriter_Write_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	w := NewWriter(dir)

	path, err := w.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
