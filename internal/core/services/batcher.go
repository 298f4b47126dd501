package services

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

const (
	// DefaultBatchSize is how many chunks are embedded per API call.
	DefaultBatchSize = 250

	// DefaultBatchDeadline bounds retries for a single batch. A batch
	// that cannot be embedded within this window fails the run.
	DefaultBatchDeadline = 300 * time.Second
)

// Batcher groups chunks into fixed-size batches and embeds each batch
// through the configured embedding service. Embedding failures are fatal:
// a batch is retried with backoff until the per-batch deadline, after which
// the whole run aborts rather than persist partially embedded output.
type Batcher struct {
	service   driven.EmbeddingService
	batchSize int
	deadline  time.Duration
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithBatchSize overrides the number of chunks per embedding request.
func WithBatchSize(n int) BatcherOption {
	return func(b *Batcher) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithBatchDeadline overrides the per-batch retry deadline.
func WithBatchDeadline(d time.Duration) BatcherOption {
	return func(b *Batcher) {
		if d > 0 {
			b.deadline = d
		}
	}
}

// NewBatcher creates a batcher over the given embedding service.
func NewBatcher(service driven.EmbeddingService, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		service:   service,
		batchSize: DefaultBatchSize,
		deadline:  DefaultBatchDeadline,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EmbedAll embeds every chunk and returns them paired with their vectors,
// in the same order they were given. An empty input returns an empty slice
// without touching the embedding service.
func (b *Batcher) EmbedAll(ctx context.Context, chunks []domain.Chunk) ([]domain.EmbeddedChunk, error) {
	if len(chunks) == 0 {
		return []domain.EmbeddedChunk{}, nil
	}

	embedded := make([]domain.EmbeddedChunk, 0, len(chunks))
	total := (len(chunks) + b.batchSize - 1) / b.batchSize

	for start := 0; start < len(chunks); start += b.batchSize {
		end := start + b.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		batchNum := start/b.batchSize + 1

		logger.Debug("embedding batch %d/%d (%d chunks)", batchNum, total, len(batch))

		vectors, err := b.embedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d/%d: %v", domain.ErrEmbeddingFailed, batchNum, total, err)
		}

		for i, chunk := range batch {
			embedded = append(embedded, domain.EmbeddedChunk{Chunk: chunk, Embedding: vectors[i]})
		}
	}

	return embedded, nil
}

// embedBatch embeds one batch under its own deadline, retrying transient
// failures with backoff. Vector count and order must match the input.
func (b *Batcher) embedBatch(ctx context.Context, batch []domain.Chunk) ([][]float32, error) {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	batchCtx, cancel := context.WithTimeout(ctx, b.deadline)
	defer cancel()

	var vectors [][]float32
	err := retryWithBackoff(batchCtx, "embed batch", func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = b.service.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(vectors), len(texts))
	}
	return vectors, nil
}
