package services

import (
	"context"
	"fmt"
	"path"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
	"github.com/meridian-labs/harvest/internal/logger"
)

// Lister flattens a hierarchical source tree into leaf file descriptors.
//
// Traversal uses an explicit worklist of folder identities rather than
// recursion, so arbitrarily nested trees cannot exhaust the stack.
// Pagination is the tree implementation's concern.
type Lister struct {
	tree driven.SourceTree
}

// NewLister creates a lister over a source tree.
func NewLister(tree driven.SourceTree) *Lister {
	return &Lister{tree: tree}
}

// pendingFolder is one container waiting to be listed.
type pendingFolder struct {
	id   string
	path string
}

// List returns every leaf file reachable beneath the root folder.
// Folders are traversed but never emitted. Order is unspecified; callers
// must not depend on it across runs.
//
// A listing failure on any subtree is fatal for the whole run: change
// detection against a partial tree would corrupt the identity index.
func (l *Lister) List(ctx context.Context, rootFolderID string) ([]domain.FileDescriptor, error) {
	var files []domain.FileDescriptor

	queue := []pendingFolder{{id: rootFolderID, path: ""}}
	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		entries, err := l.tree.ListFolder(ctx, folder.id)
		if err != nil {
			return nil, fmt.Errorf("%w: folder %q: %w", domain.ErrListingFailed, folder.id, err)
		}

		for _, entry := range entries {
			if entry.Folder {
				queue = append(queue, pendingFolder{
					id:   entry.ID,
					path: path.Join(folder.path, entry.Name),
				})
				continue
			}

			files = append(files, domain.FileDescriptor{
				ID:           entry.ID,
				Name:         entry.Name,
				ContentType:  entry.ContentType,
				ModifiedTime: entry.ModifiedTime,
				WebLink:      entry.WebLink,
				Path:         "/" + path.Join(folder.path, entry.Name),
			})
		}
	}

	logger.Debug("listed %d files under folder %q", len(files), rootFolderID)
	return files, nil
}
