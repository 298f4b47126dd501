// Package memory provides an in-memory chunk store. It backs dry runs,
// where the pipeline should execute in full without touching the database.
package memory

import (
	"context"
	"sync"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.HashIndex  = (*Store)(nil)
	_ driven.ChunkStore = (*Store)(nil)
)

// Store is an in-memory implementation of the hash index and chunk store.
// Nothing survives process exit.
type Store struct {
	mu     sync.RWMutex
	index  map[string]domain.HashIndexEntry
	chunks []domain.EmbeddedChunk
	runs   []domain.RunReport
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]domain.HashIndexEntry),
	}
}

// Query returns a copy of the identity index.
func (s *Store) Query(_ context.Context) (map[string]domain.HashIndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]domain.HashIndexEntry, len(s.index))
	for id, entry := range s.index {
		index[id] = entry
	}
	return index, nil
}

// AppendChunks appends embedded chunk rows.
func (s *Store) AppendChunks(_ context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// AdvanceIndex records the processed version of each document.
func (s *Store) AdvanceIndex(_ context.Context, entries []domain.HashIndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		s.index[entry.DocumentID] = entry
	}
	return nil
}

// RecordRun stores the run report.
func (s *Store) RecordRun(_ context.Context, report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *report)
	return nil
}

// ChunkCount returns the number of appended chunk rows.
func (s *Store) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
