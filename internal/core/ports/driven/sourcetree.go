package driven

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// TreeEntry is one immediate child of a folder in the source tree.
// Folders are traversed by the lister; only leaf files become descriptors.
type TreeEntry struct {
	// ID is the stable opaque identity of the entry.
	ID string

	// Name is the display name.
	Name string

	// ContentType is the MIME type reported by the store.
	ContentType string

	// ModifiedTime is the store's modification timestamp (RFC 3339).
	ModifiedTime string

	// WebLink is a display link for opening the entry.
	WebLink string

	// Folder reports whether the entry is a container.
	Folder bool
}

// SourceTree provides read access to a hierarchical file store.
// Implementations handle pagination internally: ListFolder returns every
// immediate child of a folder and callers never see page tokens.
//
// Credential acquisition is entirely the implementation's concern; the core
// never branches on how a tree was authenticated.
type SourceTree interface {
	// ListFolder returns all immediate children of a folder.
	// An empty folder ID means the configured root.
	ListFolder(ctx context.Context, folderID string) ([]TreeEntry, error)

	// Fetch downloads a file's raw bytes.
	Fetch(ctx context.Context, file domain.FileDescriptor) ([]byte, error)

	// Export converts a remote-native document to the target MIME type and
	// returns the converted bytes. Returns an error for stores or files that
	// do not support export.
	Export(ctx context.Context, file domain.FileDescriptor, targetMIME string) ([]byte, error)

	// Close releases resources.
	Close() error
}
