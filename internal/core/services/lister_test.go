package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

func TestLister_List_FlattensTree(t *testing.T) {
	tree := newFakeTree()
	tree.addFile("", "f1", "readme.txt", "text/plain", "2026-01-01T00:00:00Z", []byte("hi"))
	tree.addFolder("", "d1", "reports")
	tree.addFile("d1", "f2", "q1.txt", "text/plain", "2026-01-02T00:00:00Z", []byte("q1"))
	tree.addFolder("d1", "d2", "archive")
	tree.addFile("d2", "f3", "old.txt", "text/plain", "2026-01-03T00:00:00Z", []byte("old"))

	lister := NewLister(tree)
	files, err := lister.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, files, 3)

	byID := make(map[string]domain.FileDescriptor)
	for _, f := range files {
		byID[f.ID] = f
	}

	assert.Equal(t, "/readme.txt", byID["f1"].Path)
	assert.Equal(t, "/reports/q1.txt", byID["f2"].Path)
	assert.Equal(t, "/reports/archive/old.txt", byID["f3"].Path)
	assert.Equal(t, "q1.txt", byID["f2"].Name)
	assert.Equal(t, "2026-01-02T00:00:00Z", byID["f2"].ModifiedTime)
}

func TestLister_List_EmptyTree(t *testing.T) {
	lister := NewLister(newFakeTree())

	files, err := lister.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLister_List_FoldersNotEmitted(t *testing.T) {
	tree := newFakeTree()
	tree.addFolder("", "d1", "empty")
	tree.addFolder("d1", "d2", "nested-empty")

	lister := NewLister(tree)
	files, err := lister.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLister_List_ErrorIsFatal(t *testing.T) {
	tree := newFakeTree()
	tree.listErr = errors.New("boom")

	lister := NewLister(tree)
	files, err := lister.List(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrListingFailed)
	assert.Nil(t, files)
}
