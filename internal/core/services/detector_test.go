package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

func file(id, mtime string) domain.FileDescriptor {
	return domain.FileDescriptor{
		ID: id, Name: id + ".txt", ContentType: "text/plain", ModifiedTime: mtime,
	}
}

func indexEntry(id, text, mtime string) domain.HashIndexEntry {
	return domain.HashIndexEntry{
		DocumentID: id, ContentHash: domain.HashContent(text), ModifiedTime: mtime,
	}
}

func TestDetector_Detect_NewFile(t *testing.T) {
	loader := newFakeLoader()
	detector := NewDetector(loader)

	files := []domain.FileDescriptor{file("a", "2026-01-01T00:00:00Z")}
	candidates, stats := detector.Detect(context.Background(), files, nil)

	require.Len(t, candidates, 1)
	assert.Equal(t, domain.ReasonNew, candidates[0].Reason)
	assert.False(t, candidates[0].Extracted)
	assert.Equal(t, domain.ChangeStats{New: 1}, stats)
	assert.Empty(t, loader.calls, "new files must not be fetched during detection")
}

func TestDetector_Detect_UnchangedMTime(t *testing.T) {
	loader := newFakeLoader()
	detector := NewDetector(loader)

	files := []domain.FileDescriptor{file("a", "2026-01-01T00:00:00Z")}
	index := map[string]domain.HashIndexEntry{
		"a": indexEntry("a", "old text", "2026-01-01T00:00:00Z"),
	}

	candidates, stats := detector.Detect(context.Background(), files, index)
	assert.Empty(t, candidates)
	assert.Equal(t, domain.ChangeStats{Unchanged: 1}, stats)
	assert.Empty(t, loader.calls, "unchanged files must not be fetched")
}

func TestDetector_Detect_ModifiedContent(t *testing.T) {
	loader := newFakeLoader()
	loader.texts["a"] = "new text"
	detector := NewDetector(loader)

	files := []domain.FileDescriptor{file("a", "2026-02-01T00:00:00Z")}
	index := map[string]domain.HashIndexEntry{
		"a": indexEntry("a", "old text", "2026-01-01T00:00:00Z"),
	}

	candidates, stats := detector.Detect(context.Background(), files, index)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.ReasonModified, candidates[0].Reason)
	assert.True(t, candidates[0].Extracted)
	assert.Equal(t, "new text", candidates[0].Text)
	assert.Equal(t, domain.ChangeStats{Modified: 1}, stats)
}

func TestDetector_Detect_TouchedButIdentical(t *testing.T) {
	loader := newFakeLoader()
	loader.texts["a"] = "same text"
	detector := NewDetector(loader)

	// mtime is newer but the extracted text hashes the same.
	files := []domain.FileDescriptor{file("a", "2026-02-01T00:00:00Z")}
	index := map[string]domain.HashIndexEntry{
		"a": indexEntry("a", "same text", "2026-01-01T00:00:00Z"),
	}

	candidates, stats := detector.Detect(context.Background(), files, index)
	assert.Empty(t, candidates)
	assert.Equal(t, domain.ChangeStats{Unchanged: 1}, stats)
}

func TestDetector_Detect_VerificationFailureIsConservative(t *testing.T) {
	loader := newFakeLoader()
	loader.errs["a"] = errors.New("transient fetch failure")
	detector := NewDetector(loader)

	files := []domain.FileDescriptor{file("a", "2026-02-01T00:00:00Z")}
	index := map[string]domain.HashIndexEntry{
		"a": indexEntry("a", "old text", "2026-01-01T00:00:00Z"),
	}

	candidates, stats := detector.Detect(context.Background(), files, index)
	require.Len(t, candidates, 1, "verification failure must not drop the file")
	assert.Equal(t, domain.ReasonModified, candidates[0].Reason)
	assert.False(t, candidates[0].Extracted)
	assert.Equal(t, domain.ChangeStats{Modified: 1}, stats)
}

func TestDetector_Detect_StatsSumToFileCount(t *testing.T) {
	loader := newFakeLoader()
	loader.texts["b"] = "changed"
	loader.texts["c"] = "same"
	detector := NewDetector(loader)

	files := []domain.FileDescriptor{
		file("a", "2026-01-01T00:00:00Z"), // new
		file("b", "2026-02-01T00:00:00Z"), // modified
		file("c", "2026-02-01T00:00:00Z"), // touched, identical
		file("d", "2026-01-01T00:00:00Z"), // unchanged
	}
	index := map[string]domain.HashIndexEntry{
		"b": indexEntry("b", "original", "2026-01-01T00:00:00Z"),
		"c": indexEntry("c", "same", "2026-01-01T00:00:00Z"),
		"d": indexEntry("d", "whatever", "2026-01-01T00:00:00Z"),
	}

	candidates, stats := detector.Detect(context.Background(), files, index)
	assert.Equal(t, len(files), stats.Total())
	assert.Equal(t, domain.ChangeStats{New: 1, Modified: 1, Unchanged: 2}, stats)
	assert.Len(t, candidates, 2)
}

func TestDetector_Detect_EmptyListing(t *testing.T) {
	detector := NewDetector(newFakeLoader())

	candidates, stats := detector.Detect(context.Background(), nil, nil)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, stats.Total())
}
