package image

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ocrServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestExtractor_Extract(t *testing.T) {
	server := ocrServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ocr", r.URL.Path)

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "scan.png", header.Filename)

		json.NewEncoder(w).Encode(ocrResponse{Success: true, Text: " recognised text \n"})
	})

	e := New(server.URL)
	text, err := e.Extract(context.Background(), []byte("fake png bytes"), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "recognised text", text)
}

func TestExtractor_Extract_ServiceFailure(t *testing.T) {
	server := ocrServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Success: false, Error: "unreadable image"})
	})

	e := New(server.URL)
	_, err := e.Extract(context.Background(), []byte("bytes"), "scan.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable image")
}

func TestExtractor_Extract_HTTPError(t *testing.T) {
	server := ocrServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	e := New(server.URL)
	_, err := e.Extract(context.Background(), []byte("bytes"), "scan.png")
	require.Error(t, err)
}

func TestExtractor_Extract_Unconfigured(t *testing.T) {
	e := New("")
	_, err := e.Extract(context.Background(), []byte("bytes"), "scan.png")
	require.Error(t, err)
}
