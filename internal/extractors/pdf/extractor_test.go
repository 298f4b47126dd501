package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract_InvalidData(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), []byte("not a pdf"), "broken.pdf")
	require.Error(t, err, "corrupt input must error so the pipeline can warn and move on")
}

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"application/pdf"}, e.ContentTypes())
	assert.False(t, e.Source().Export)
	assert.Equal(t, "PDF", e.DisplayName())
}
