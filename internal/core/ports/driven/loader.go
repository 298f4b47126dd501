package driven

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// DocumentLoader produces the extracted text of one source file.
// It combines fetching (or exporting) the file's bytes with format dispatch.
// Both change detection (hash verification) and the processing stage consume
// this port, so a file verified in phase 2 is not fetched twice.
type DocumentLoader interface {
	// LoadText returns the extracted plain text of a file.
	// Errors cover fetch, export and extraction failures; callers decide
	// whether an error is conservative (reprocess) or a warning (empty text).
	LoadText(ctx context.Context, file domain.FileDescriptor) (string, error)
}
