package services

import (
	"context"
	"fmt"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure TextLoader implements the port.
var _ driven.DocumentLoader = (*TextLoader)(nil)

// TextLoader fetches a file's bytes and runs them through the extractor
// registry. Remote-native formats are exported to a byte-level format
// first, as declared by the extractor's content source.
type TextLoader struct {
	tree     driven.SourceTree
	registry driven.ExtractorRegistry
}

// NewTextLoader creates a loader over a source tree and extractor registry.
func NewTextLoader(tree driven.SourceTree, registry driven.ExtractorRegistry) *TextLoader {
	return &TextLoader{tree: tree, registry: registry}
}

// LoadText returns the extracted plain text of a file.
// An unregistered content type returns domain.ErrUnsupportedType; fetch,
// export and extraction failures are wrapped and returned as-is. Callers
// apply policy: change detection treats errors conservatively, the
// processing stage downgrades them to warnings with empty text.
func (l *TextLoader) LoadText(ctx context.Context, file domain.FileDescriptor) (string, error) {
	extractor, ok := l.registry.Lookup(file.ContentType)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, file.ContentType, file.Name)
	}

	var data []byte
	var err error
	if src := extractor.Source(); src.Export {
		data, err = l.tree.Export(ctx, file, src.ExportMIME)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", file.Name, err)
		}
	} else {
		data, err = l.tree.Fetch(ctx, file)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", file.Name, err)
		}
	}

	text, err := extractor.Extract(ctx, data, file.Name)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return text, nil
}
