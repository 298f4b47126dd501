package driven

import "context"

// ContentSource describes how an extractor obtains document bytes.
// Most formats extract from the raw downloaded bytes; remote-native formats
// (store-proprietary documents) require an export round trip first.
type ContentSource struct {
	// Export reports whether the file must be exported rather than downloaded.
	Export bool

	// ExportMIME is the target MIME type for the export call.
	// Only meaningful when Export is true.
	ExportMIME string
}

// Extractor converts one class of document bytes into plain text.
// Extraction must never be fatal for malformed content: implementations
// return an error and the caller downgrades it to a per-file warning, so a
// single bad input cannot fail the batch.
type Extractor interface {
	// ContentTypes returns the MIME types this extractor handles.
	ContentTypes() []string

	// DisplayName returns a human-readable format label for logging.
	DisplayName() string

	// Source describes how document bytes are obtained for this format.
	Source() ContentSource

	// Extract converts document bytes to plain text.
	Extract(ctx context.Context, data []byte, name string) (string, error)
}

// ExtractorRegistry dispatches on content type.
// Unknown types are reported by the caller and produce empty text; the file
// still counts as processed so it is not retried every run.
type ExtractorRegistry interface {
	// Lookup returns the extractor for a content type.
	Lookup(contentType string) (Extractor, bool)

	// SupportedTypes returns all registered content types.
	SupportedTypes() []string
}
