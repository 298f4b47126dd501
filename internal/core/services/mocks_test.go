package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// fakeTree is an in-memory SourceTree. Folders map folder IDs to their
// children; contents maps file IDs to raw bytes.
type fakeTree struct {
	folders  map[string][]driven.TreeEntry
	contents map[string][]byte
	exports  map[string][]byte
	listErr  error
	fetchErr error
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		folders:  make(map[string][]driven.TreeEntry),
		contents: make(map[string][]byte),
		exports:  make(map[string][]byte),
	}
}

func (t *fakeTree) addFolder(parentID string, id, name string) {
	t.folders[parentID] = append(t.folders[parentID], driven.TreeEntry{
		ID: id, Name: name, ContentType: "inode/directory", Folder: true,
	})
}

func (t *fakeTree) addFile(parentID string, id, name, contentType, mtime string, content []byte) {
	t.folders[parentID] = append(t.folders[parentID], driven.TreeEntry{
		ID: id, Name: name, ContentType: contentType, ModifiedTime: mtime,
		WebLink: "https://example.com/" + id,
	})
	t.contents[id] = content
}

func (t *fakeTree) ListFolder(_ context.Context, folderID string) ([]driven.TreeEntry, error) {
	if t.listErr != nil {
		return nil, t.listErr
	}
	return t.folders[folderID], nil
}

func (t *fakeTree) Fetch(_ context.Context, file domain.FileDescriptor) ([]byte, error) {
	if t.fetchErr != nil {
		return nil, t.fetchErr
	}
	data, ok := t.contents[file.ID]
	if !ok {
		return nil, fmt.Errorf("no content for %s", file.ID)
	}
	return data, nil
}

func (t *fakeTree) Export(_ context.Context, file domain.FileDescriptor, targetMIME string) ([]byte, error) {
	data, ok := t.exports[file.ID+"|"+targetMIME]
	if !ok {
		return nil, fmt.Errorf("no export for %s as %s", file.ID, targetMIME)
	}
	return data, nil
}

func (t *fakeTree) Close() error { return nil }

// fakeLoader returns canned text per file ID.
type fakeLoader struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		texts: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (l *fakeLoader) LoadText(_ context.Context, file domain.FileDescriptor) (string, error) {
	l.calls = append(l.calls, file.ID)
	if err, ok := l.errs[file.ID]; ok {
		return "", err
	}
	text, ok := l.texts[file.ID]
	if !ok {
		return "", errors.New("no text for " + file.ID)
	}
	return text, nil
}

// fakeEmbedder returns fixed-size vectors and records batch sizes.
type fakeEmbedder struct {
	mu         sync.Mutex
	batchSizes []int
	failures   int
	shortBy    int
	dims       int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 4}
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchSizes = append(e.batchSizes, len(texts))

	if e.failures > 0 {
		e.failures--
		return nil, errors.New("transient embedding failure")
	}

	vectors := make([][]float32, 0, len(texts))
	for i := range texts {
		vec := make([]float32, e.dims)
		vec[0] = float32(i)
		vectors = append(vectors, vec)
	}
	if e.shortBy > 0 && len(vectors) >= e.shortBy {
		vectors = vectors[:len(vectors)-e.shortBy]
	}
	return vectors, nil
}

func (e *fakeEmbedder) Dimensions() int   { return e.dims }
func (e *fakeEmbedder) ModelName() string { return "fake-embedding" }
func (e *fakeEmbedder) Close() error      { return nil }

// fakeStore implements HashIndex and ChunkStore in memory, recording the
// order of persistence calls.
type fakeStore struct {
	index      map[string]domain.HashIndexEntry
	chunks     []domain.EmbeddedChunk
	runs       []*domain.RunReport
	callOrder  []string
	queryErr   error
	appendErr  error
	advanceErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{index: make(map[string]domain.HashIndexEntry)}
}

func (s *fakeStore) Query(context.Context) (map[string]domain.HashIndexEntry, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	out := make(map[string]domain.HashIndexEntry, len(s.index))
	for k, v := range s.index {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) AppendChunks(_ context.Context, chunks []domain.EmbeddedChunk) error {
	s.callOrder = append(s.callOrder, "append")
	if s.appendErr != nil {
		return s.appendErr
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *fakeStore) AdvanceIndex(_ context.Context, entries []domain.HashIndexEntry) error {
	s.callOrder = append(s.callOrder, "advance")
	if s.advanceErr != nil {
		return s.advanceErr
	}
	for _, entry := range entries {
		s.index[entry.DocumentID] = entry
	}
	return nil
}

func (s *fakeStore) RecordRun(_ context.Context, report *domain.RunReport) error {
	s.callOrder = append(s.callOrder, "record")
	s.runs = append(s.runs, report)
	return nil
}

// fakeSnapshot records what it was asked to write.
type fakeSnapshot struct {
	mu       sync.Mutex
	writes   [][]domain.EmbeddedChunk
	path     string
	writeErr error
	order    *fakeStore
}

func newFakeSnapshot(store *fakeStore) *fakeSnapshot {
	return &fakeSnapshot{path: "/tmp/documents_test.jsonl", order: store}
}

func (s *fakeSnapshot) Write(_ context.Context, chunks []domain.EmbeddedChunk) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order != nil {
		s.order.callOrder = append(s.order.callOrder, "snapshot")
	}
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.writes = append(s.writes, chunks)
	return s.path, nil
}
