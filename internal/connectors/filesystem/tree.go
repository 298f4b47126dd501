package filesystem

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Tree is a local-directory implementation of the source tree. Entry IDs
// are slash-separated paths relative to the root, so the same file keeps
// the same identity across runs and across machines sharing the layout.
type Tree struct {
	root string
}

var _ driven.SourceTree = (*Tree)(nil)

// New creates a filesystem source tree rooted at the given directory.
func New(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("filesystem: resolve root %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("filesystem: stat root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: filesystem root %q is not a directory", domain.ErrInvalidInput, root)
	}

	return &Tree{root: abs}, nil
}

// Root returns the absolute root directory.
func (t *Tree) Root() string {
	return t.root
}

// ListFolder returns all immediate children of a folder. An empty folder
// ID means the root directory. Hidden entries (dotfiles) are skipped.
func (t *Tree) ListFolder(ctx context.Context, folderID string) ([]driven.TreeEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := t.resolve(folderID)
	if err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: list %q: %w", folderID, err)
	}

	var entries []driven.TreeEntry
	for _, dirent := range dirents {
		if strings.HasPrefix(dirent.Name(), ".") {
			continue
		}

		info, err := dirent.Info()
		if err != nil {
			return nil, fmt.Errorf("filesystem: stat %q: %w", dirent.Name(), err)
		}

		id := path.Join(folderID, dirent.Name())
		entries = append(entries, driven.TreeEntry{
			ID:           id,
			Name:         dirent.Name(),
			ContentType:  contentType(dirent.Name(), dirent.IsDir()),
			ModifiedTime: info.ModTime().UTC().Format(time.RFC3339),
			WebLink:      "file://" + filepath.Join(t.root, filepath.FromSlash(id)),
			Folder:       dirent.IsDir(),
		})
	}
	return entries, nil
}

// Fetch reads a file's raw bytes.
func (t *Tree) Fetch(ctx context.Context, file domain.FileDescriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := t.resolve(file.ID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("filesystem: read %q: %w", file.ID, err)
	}
	return data, nil
}

// Export is not supported: local files have no remote-native formats.
func (t *Tree) Export(_ context.Context, file domain.FileDescriptor, targetMIME string) ([]byte, error) {
	return nil, fmt.Errorf("%w: filesystem cannot export %q as %s", domain.ErrUnsupportedType, file.ID, targetMIME)
}

// Close releases resources.
func (t *Tree) Close() error {
	return nil
}

// resolve maps an entry ID to an absolute path, rejecting IDs that would
// escape the root.
func (t *Tree) resolve(id string) (string, error) {
	p := filepath.Join(t.root, filepath.FromSlash(id))
	if p != t.root && !strings.HasPrefix(p, t.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes the source root", domain.ErrInvalidInput, id)
	}
	return p, nil
}

// contentType derives a MIME type from a file extension. Extensions the
// platform database does not know fall back to application/octet-stream so
// the registry can reject them explicitly.
func contentType(name string, folder bool) string {
	if folder {
		return "inode/directory"
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	if mt := mime.TypeByExtension(ext); mt != "" {
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
		return mt
	}
	return "application/octet-stream"
}
