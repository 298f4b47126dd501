package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations wrap an external model endpoint. The returned vectors must
// align positionally with the input batch: vector i embeds text i. Batch
// partitioning and retry discipline are the caller's concern.
type EmbeddingService interface {
	// EmbedBatch generates embeddings for multiple texts in one request.
	// The result has exactly one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size fixed by the model.
	Dimensions() int

	// ModelName returns the name of the embedding model in use.
	ModelName() string

	// Close releases resources.
	Close() error
}
