// Package image extracts text from raster images via an OCR service.
package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultTimeout bounds one OCR request; recognition can be slow.
const DefaultTimeout = 2 * time.Minute

// Extractor sends image bytes to an HTTP OCR sidecar and returns the
// recognised text. An unconfigured or unreachable service is an extraction
// error, which the pipeline downgrades to a per-file warning.
type Extractor struct {
	client  *http.Client
	baseURL string
}

// ocrResponse is the OCR service response format.
type ocrResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// New creates a new OCR-backed image extractor.
// baseURL may be empty; extraction then always errors.
func New(baseURL string) *Extractor {
	return &Extractor{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ContentTypes returns the MIME types this extractor handles.
func (e *Extractor) ContentTypes() []string {
	return []string{"image/png", "image/jpeg"}
}

// DisplayName returns the format label.
func (e *Extractor) DisplayName() string {
	return "Image (OCR)"
}

// Source reports that raw bytes are sufficient.
func (e *Extractor) Source() driven.ContentSource {
	return driven.ContentSource{}
}

// Extract uploads the image to the OCR service and returns the text.
func (e *Extractor) Extract(ctx context.Context, data []byte, name string) (string, error) {
	if e.baseURL == "" {
		return "", fmt.Errorf("ocr service not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ocr", &body)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr service returned %d for %s: %s", resp.StatusCode, name, payload)
	}

	var result ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode ocr response for %s: %w", name, err)
	}
	if !result.Success {
		return "", fmt.Errorf("ocr failed for %s: %s", name, result.Error)
	}

	return strings.TrimSpace(result.Text), nil
}
