package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/core/ports/driving"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Pipeline orchestrates a full harvest run: list the source tree, detect
// changes against the identity index, extract and chunk the changed files,
// embed the chunks, and commit everything through the sink.
//
// Only one run may be in flight at a time; a second Run while the first is
// active fails with domain.ErrRunInProgress.
type Pipeline struct {
	mu sync.Mutex

	lister     *Lister
	index      driven.HashIndex
	detector   *Detector
	loader     driven.DocumentLoader
	processors driven.PostProcessorPipeline
	batcher    *Batcher
	sink       *Sink
	store      driven.ChunkStore
	importer   driven.Importer

	rootFolderID string
}

var _ driving.PipelineRunner = (*Pipeline)(nil)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithImporter attaches an importer that loads each run's snapshot into an
// external destination after the sink commit.
func WithImporter(imp driven.Importer) PipelineOption {
	return func(p *Pipeline) { p.importer = imp }
}

// NewPipeline wires the run orchestrator from its collaborating services.
func NewPipeline(
	lister *Lister,
	index driven.HashIndex,
	detector *Detector,
	loader driven.DocumentLoader,
	processors driven.PostProcessorPipeline,
	batcher *Batcher,
	sink *Sink,
	store driven.ChunkStore,
	rootFolderID string,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		lister:       lister,
		index:        index,
		detector:     detector,
		loader:       loader,
		processors:   processors,
		batcher:      batcher,
		sink:         sink,
		store:        store,
		rootFolderID: rootFolderID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one harvest pass and returns its report. Listing,
// embedding and persistence failures abort the run; extraction failures
// only exclude the affected file and surface as warnings in the report.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunReport, error) {
	if !p.mu.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer p.mu.Unlock()

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger.Info("run %s starting", report.RunID)

	files, err := p.lister.List(ctx, p.rootFolderID)
	if err != nil {
		return nil, err
	}
	logger.Info("listed %d files", len(files))

	index, err := p.index.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: querying identity index: %v", domain.ErrPersistenceFailed, err)
	}

	candidates, stats := p.detector.Detect(ctx, files, index)
	report.Stats = stats

	var chunks []domain.Chunk
	var entries []domain.HashIndexEntry
	for _, cand := range candidates {
		docChunks, entry, warn := p.process(ctx, cand)
		if warn != nil {
			report.Warnings = append(report.Warnings, *warn)
		}
		if entry != nil {
			entries = append(entries, *entry)
			report.FilesProcessed++
		}
		chunks = append(chunks, docChunks...)
	}

	embedded, err := p.batcher.EmbedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	snapshotPath, err := p.sink.Commit(ctx, embedded, entries)
	if err != nil {
		return nil, err
	}
	report.ChunksWritten = len(embedded)
	report.SnapshotPath = snapshotPath

	if p.importer != nil {
		if err := p.importer.Import(ctx, snapshotPath); err != nil {
			return nil, fmt.Errorf("%w: importing snapshot: %v", domain.ErrPersistenceFailed, err)
		}
	}

	report.FinishedAt = time.Now().UTC()
	if err := p.store.RecordRun(ctx, report); err != nil {
		logger.Warn("recording run history: %v", err)
	}

	logger.Info("run %s finished: %d files processed, %d chunks written, %d warnings",
		report.RunID, report.FilesProcessed, report.ChunksWritten, len(report.Warnings))
	return report, nil
}

// process extracts and chunks one candidate. It returns the chunks, the
// index entry to record, and an optional warning. A nil entry means the
// file was not processed and should be picked up again on the next run.
func (p *Pipeline) process(ctx context.Context, cand domain.Candidate) ([]domain.Chunk, *domain.HashIndexEntry, *domain.ExtractionWarning) {
	text := cand.Text
	if !cand.Extracted {
		var err error
		text, err = p.loader.LoadText(ctx, cand.File)
		if err != nil {
			warn := &domain.ExtractionWarning{
				DocumentID:   cand.File.ID,
				DocumentName: cand.File.Name,
				ContentType:  cand.File.ContentType,
				Reason:       err.Error(),
			}
			logger.Warn("skipping %s: %v", cand.File.Name, err)

			// Unsupported types will never extract; index them so they
			// are not re-examined until the source file changes.
			if errors.Is(err, domain.ErrUnsupportedType) {
				return nil, &domain.HashIndexEntry{
					DocumentID:   cand.File.ID,
					ContentHash:  domain.HashContent(""),
					ModifiedTime: cand.File.ModifiedTime,
				}, warn
			}
			return nil, nil, warn
		}
	}

	doc := &domain.ExtractedDocument{
		File:        cand.File,
		Text:        text,
		ContentHash: domain.HashContent(text),
	}

	chunks, err := p.processors.Process(ctx, doc)
	if err != nil {
		warn := &domain.ExtractionWarning{
			DocumentID:   cand.File.ID,
			DocumentName: cand.File.Name,
			ContentType:  cand.File.ContentType,
			Reason:       err.Error(),
		}
		logger.Warn("post-processing %s: %v", cand.File.Name, err)
		return nil, nil, warn
	}

	// Zero-chunk files are still recorded: an empty document that was
	// processed must not look new forever.
	entry := &domain.HashIndexEntry{
		DocumentID:   cand.File.ID,
		ContentHash:  doc.ContentHash,
		ModifiedTime: cand.File.ModifiedTime,
	}
	return chunks, entry, nil
}
