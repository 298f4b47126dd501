package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("folder id required", func(t *testing.T) {
		cfg := &Config{}
		require.Error(t, cfg.Validate())
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := &Config{FolderID: "folder-1"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, int64(DefaultPageSize), cfg.PageSize)
	})

	t.Run("filter entries trimmed", func(t *testing.T) {
		cfg := &Config{FolderID: "folder-1", MimeTypeFilter: []string{" application/pdf ", "text/plain"}}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, []string{"application/pdf", "text/plain"}, cfg.MimeTypeFilter)
	})
}

func TestConfig_AllowsMimeType(t *testing.T) {
	empty := &Config{FolderID: "f"}
	require.NoError(t, empty.Validate())
	assert.True(t, empty.allowsMimeType("anything/at-all"))

	filtered := &Config{FolderID: "f", MimeTypeFilter: []string{"application/pdf"}}
	require.NoError(t, filtered.Validate())
	assert.True(t, filtered.allowsMimeType("application/pdf"))
	assert.False(t, filtered.allowsMimeType("text/plain"))
}

func TestResolveWebURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/open?id=x", ResolveWebURL("abc", "https://drive.google.com/open?id=x"))
	assert.Equal(t, "https://drive.google.com/file/d/abc/view", ResolveWebURL("abc", ""))
	assert.Equal(t, "", ResolveWebURL("", ""))
}
