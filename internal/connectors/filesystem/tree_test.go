package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func entriesByName(entries []driven.TreeEntry) map[string]driven.TreeEntry {
	byName := make(map[string]driven.TreeEntry, len(entries))
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	return byName
}

func TestNew_Validation(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "plain.txt", "x")
		_, err := New(filepath.Join(root, "plain.txt"))
		require.Error(t, err)
	})
}

func TestTree_ListFolder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "readme.md", "# hi")
	writeFile(t, root, "data.csv", "a,b")
	writeFile(t, root, ".hidden", "secret")
	writeFile(t, root, "sub/nested.txt", "deep")

	tree, err := New(root)
	require.NoError(t, err)
	defer tree.Close()

	entries, err := tree.ListFolder(context.Background(), "")
	require.NoError(t, err)
	byName := entriesByName(entries)

	require.Len(t, entries, 3, "dotfiles are skipped")
	assert.Equal(t, "text/markdown", byName["readme.md"].ContentType)
	assert.Equal(t, "text/csv", byName["data.csv"].ContentType)
	assert.True(t, byName["sub"].Folder)
	assert.Equal(t, "readme.md", byName["readme.md"].ID)

	_, err = time.Parse(time.RFC3339, byName["readme.md"].ModifiedTime)
	assert.NoError(t, err, "mtime must be RFC 3339")

	// Children use slash-joined relative IDs.
	children, err := tree.ListFolder(context.Background(), byName["sub"].ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "sub/nested.txt", children[0].ID)
}

func TestTree_Fetch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/nested.txt", "deep content")

	tree, err := New(root)
	require.NoError(t, err)

	data, err := tree.Fetch(context.Background(), domain.FileDescriptor{ID: "sub/nested.txt"})
	require.NoError(t, err)
	assert.Equal(t, "deep content", string(data))
}

func TestTree_Fetch_RejectsEscape(t *testing.T) {
	tree, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = tree.Fetch(context.Background(), domain.FileDescriptor{ID: "../../etc/passwd"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTree_Export_Unsupported(t *testing.T) {
	tree, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = tree.Export(context.Background(), domain.FileDescriptor{ID: "a.txt"}, "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestResolveWebURL(t *testing.T) {
	assert.Equal(t, "/data/file.txt", ResolveWebURL("file:///data/file.txt"))
	assert.Equal(t, "/bare/path", ResolveWebURL("/bare/path"))
}
