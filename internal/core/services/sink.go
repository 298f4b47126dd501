package services

import (
	"context"
	"fmt"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Sink persists the output of a run. Writes happen in a fixed order:
// chunks are appended to the store, the run snapshot is written, and only
// then is the identity index advanced. If anything fails before the index
// advance, the run aborts and the affected files are re-detected on the
// next run. Re-processing is cheap; a silently skipped file is not.
type Sink struct {
	store    driven.ChunkStore
	snapshot driven.SnapshotWriter
}

// NewSink creates a sink over the given chunk store and snapshot writer.
func NewSink(store driven.ChunkStore, snapshot driven.SnapshotWriter) *Sink {
	return &Sink{store: store, snapshot: snapshot}
}

// Commit persists the run's chunks and index entries and returns the
// snapshot path. A run with no chunks still produces a snapshot (an empty
// one), so downstream consumers can distinguish "ran, nothing changed"
// from "did not run". Index entries are recorded even for files that
// produced zero chunks; those files were still processed and must not be
// re-detected forever.
func (s *Sink) Commit(
	ctx context.Context,
	chunks []domain.EmbeddedChunk,
	entries []domain.HashIndexEntry,
) (string, error) {
	if len(chunks) > 0 {
		if err := s.store.AppendChunks(ctx, chunks); err != nil {
			return "", fmt.Errorf("%w: appending chunks: %v", domain.ErrPersistenceFailed, err)
		}
		logger.Debug("appended %d chunks to store", len(chunks))
	}

	path, err := s.snapshot.Write(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("%w: writing snapshot: %v", domain.ErrPersistenceFailed, err)
	}

	if len(entries) > 0 {
		if err := s.store.AdvanceIndex(ctx, entries); err != nil {
			return "", fmt.Errorf("%w: advancing index: %v", domain.ErrPersistenceFailed, err)
		}
	}

	return path, nil
}
