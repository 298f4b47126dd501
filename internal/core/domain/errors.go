package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a content type with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrListingFailed indicates the source tree could not be fully listed.
	// Listing failures are fatal: change detection against a partial tree
	// would corrupt the hash index.
	ErrListingFailed = errors.New("source listing failed")

	// ErrEmbeddingFailed indicates embedding generation exhausted its retry
	// deadline. Embeddings are not optional; a chunk without a vector is
	// never persisted.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrPersistenceFailed indicates the store append or snapshot export
	// failed. The hash index is not advanced when persistence is incomplete.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrRunInProgress indicates a pipeline run is already executing.
	// Concurrent runs against the same store are not supported.
	ErrRunInProgress = errors.New("run in progress")

	// ErrRateLimited indicates the source API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
