package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FileDescriptor describes one leaf file in the source tree.
// It is produced by listing and is immutable for the duration of a run.
// Folders are traversed during listing but never emitted as descriptors.
type FileDescriptor struct {
	// ID is the stable opaque identity of the file in the source store.
	// It survives modification but not deletion and recreation.
	ID string

	// Name is the human-readable display name.
	Name string

	// ContentType is the MIME type reported by the source store.
	ContentType string

	// ModifiedTime is the source store's modification timestamp.
	// The format is monotonic-comparable as a string (RFC 3339).
	ModifiedTime string

	// WebLink is a display link for opening the file in the source store.
	WebLink string

	// Path is the file's path within the tree, built during traversal.
	Path string
}

// Chunk is a bounded substring of one document's extracted text.
// It is the unit of retrieval and embedding. Ordinal order is
// retrieval-significant: chunk 0 precedes chunk 1 in the source document.
type Chunk struct {
	// ID is the deterministic chunk identity: "<document id>_chunk_<ordinal>".
	ID string

	// DocumentID is the identity of the source document.
	DocumentID string

	// Ordinal is the dense 0-based position within the document.
	Ordinal int

	// Content is the chunk text.
	Content string

	// DocumentName is the source document's display name.
	DocumentName string

	// ContentType is the source document's MIME type.
	ContentType string

	// DocumentMTime is the source document's modification timestamp.
	DocumentMTime string

	// WebLink is the source document's display link.
	WebLink string

	// DocumentPath is the source document's path in the tree.
	DocumentPath string

	// ContentHash is the hash of the whole extracted document text.
	// Every chunk of the same document version carries the same value.
	ContentHash string

	// Length is the chunk content length in characters.
	Length int
}

// EmbeddedChunk is a Chunk with its embedding vector attached.
// The vector dimensionality is fixed by the embedding model in use.
type EmbeddedChunk struct {
	Chunk

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// ExtractedDocument is one file's full extracted text plus its descriptor.
// It is the chunker's input; the content hash is computed once per
// document version, not per chunk.
type ExtractedDocument struct {
	// File is the source file descriptor.
	File FileDescriptor

	// Text is the full extracted plain text.
	Text string

	// ContentHash is the hash of Text.
	ContentHash string
}

// ChunkID returns the deterministic chunk identity for a document and ordinal.
// Recomputing it for unchanged input yields the same value, which supports
// idempotent appends and downstream dedup by id.
func ChunkID(documentID string, ordinal int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, ordinal)
}

// HashContent returns the hex SHA-256 digest of extracted document text.
// This is the authoritative change signal for a document version.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
