package plaintext

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	e := New()

	t.Run("plain text passes through", func(t *testing.T) {
		text, err := e.Extract(context.Background(), []byte("hello world"), "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		text, err := e.Extract(context.Background(), []byte("  \n body \n\n"), "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "body", text)
	})

	t.Run("invalid UTF-8 replaced not rejected", func(t *testing.T) {
		text, err := e.Extract(context.Background(), []byte{'o', 'k', 0xff, 0xfe, '!'}, "a.txt")
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(text))
		assert.Contains(t, text, "ok")
	})

	t.Run("empty input yields empty text", func(t *testing.T) {
		text, err := e.Extract(context.Background(), nil, "a.txt")
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}

func TestExtractor_ContentTypes(t *testing.T) {
	e := New()
	types := e.ContentTypes()
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/markdown")
	assert.Contains(t, types, "text/csv")
	assert.False(t, e.Source().Export)
}
