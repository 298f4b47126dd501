package services

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Detector performs two-phase change detection against the identity index.
//
// Phase 1 is a cheap timestamp filter: files whose identity is absent are
// new, files whose source mtime is strictly newer than the indexed mtime
// are possibly modified, everything else is unchanged and dropped without
// any network fetch.
//
// Phase 2 is authoritative: possibly-modified files are fetched, extracted
// and hashed, and the hash is compared against the index. A matching hash
// reclassifies the file as unchanged (metadata-only edits such as
// permission changes produce false positives in phase 1). A verification
// failure never drops a file: the file is conservatively processed.
type Detector struct {
	loader driven.DocumentLoader
}

// NewDetector creates a detector that verifies content with the loader.
func NewDetector(loader driven.DocumentLoader) *Detector {
	return &Detector{loader: loader}
}

// Detect classifies every listed file and returns the processing set.
// The returned stats always satisfy New + Modified + Unchanged == len(files).
// Candidates verified in phase 2 carry their extracted text so the
// processing stage does not repeat the fetch round trip.
//
// Stats are only meaningful after Detect returns; they are not live
// progress counters.
func (d *Detector) Detect(
	ctx context.Context,
	files []domain.FileDescriptor,
	index map[string]domain.HashIndexEntry,
) ([]domain.Candidate, domain.ChangeStats) {
	var stats domain.ChangeStats
	var suspects []domain.FileDescriptor
	var candidates []domain.Candidate

	// Phase 1: timestamp pre-filter.
	for _, file := range files {
		entry, known := index[file.ID]
		switch {
		case !known:
			stats.New++
			candidates = append(candidates, domain.Candidate{File: file, Reason: domain.ReasonNew})
		case entry.ModifiedTime < file.ModifiedTime:
			stats.Modified++
			suspects = append(suspects, file)
		default:
			stats.Unchanged++
		}
	}

	// Phase 2: hash verification for possibly-modified files.
	for _, file := range suspects {
		text, err := d.loader.LoadText(ctx, file)
		if err != nil {
			// Verification failed; process the file to be safe.
			logger.Warn("hash verification failed for %s, processing anyway: %v", file.Name, err)
			candidates = append(candidates, domain.Candidate{File: file, Reason: domain.ReasonModified})
			continue
		}

		if domain.HashContent(text) == index[file.ID].ContentHash {
			// Touched but content is identical (e.g. a permissions edit).
			stats.Modified--
			stats.Unchanged++
			logger.Debug("content unchanged for %s, skipping", file.Name)
			continue
		}

		candidates = append(candidates, domain.Candidate{
			File:      file,
			Reason:    domain.ReasonModified,
			Text:      text,
			Extracted: true,
		})
	}

	logger.Info("change detection: %d new, %d modified, %d unchanged",
		stats.New, stats.Modified, stats.Unchanged)
	return candidates, stats
}
