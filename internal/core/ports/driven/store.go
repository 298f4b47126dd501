package driven

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// HashIndex reads the persisted identity index at the start of a run.
type HashIndex interface {
	// Query returns the identity index: document identity to the hash and
	// mtime of the last persisted version. Returns an empty map when no
	// prior run exists; the first run is never an error.
	Query(ctx context.Context) (map[string]domain.HashIndexEntry, error)
}

// ChunkStore persists embedded chunks and the identity index.
// Chunk rows are append-only: each run's output is additive, relying on
// deterministic chunk IDs for downstream dedup on reprocessing.
type ChunkStore interface {
	// AppendChunks appends embedded chunk rows. Never overwrites.
	AppendChunks(ctx context.Context, chunks []domain.EmbeddedChunk) error

	// AdvanceIndex records the processed version of each document.
	// Called only after the run's persistence completed; entries replace
	// any previous entry for the same document identity.
	AdvanceIndex(ctx context.Context, entries []domain.HashIndexEntry) error

	// RecordRun stores the run report for history.
	RecordRun(ctx context.Context, report *domain.RunReport) error
}

// SnapshotWriter materialises a point-in-time export of one run's output.
type SnapshotWriter interface {
	// Write exports the run's embedded chunks as a newline-delimited JSON
	// file at a timestamp-named path and returns that path. An empty chunk
	// set still produces a well-defined empty snapshot.
	Write(ctx context.Context, chunks []domain.EmbeddedChunk) (string, error)
}

// Importer is the downstream search-index import collaborator.
//
// It is external to this pipeline: the snapshot path is the sole handoff
// value, treated by the importer as an immutable input batch keyed by the
// chunk identity field. The pipeline's only obligation is that the snapshot
// schema (field names, embedding field name) matches what the importer
// expects; both are run parameters.
type Importer interface {
	// Import hands the snapshot path to the downstream importer.
	Import(ctx context.Context, snapshotPath string) error
}
