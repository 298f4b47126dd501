package driven

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// PostProcessor processes extracted document text to produce chunks.
// PostProcessors are chained in a pipeline; the chunker creates chunks and
// later processors may transform them.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A processor that creates chunks receives nil and returns new chunks;
	// a processor that modifies chunks receives and returns them.
	Process(ctx context.Context, doc *domain.ExtractedDocument, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.ExtractedDocument) ([]domain.Chunk, error)
}
