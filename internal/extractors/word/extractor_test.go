package word

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXMLBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractor_Extract(t *testing.T) {
	e := New()
	data := buildDocx(t, documentXMLBody)

	text, err := e.Extract(context.Background(), data, "memo.docx")
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtractor_Extract_SplitRunsJoined(t *testing.T) {
	e := New()
	data := buildDocx(t, documentXMLBody)

	text, err := e.Extract(context.Background(), data, "memo.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "Second paragraph.", "runs within a paragraph must concatenate")
}

func TestExtractor_Extract_NotAZip(t *testing.T) {
	e := New()

	// Legacy binary .doc content is not a ZIP archive.
	_, err := e.Extract(context.Background(), []byte{0xd0, 0xcf, 0x11, 0xe0}, "legacy.doc")
	require.Error(t, err)
}

func TestExtractor_Extract_MissingDocumentXML(t *testing.T) {
	e := New()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("nothing"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = e.Extract(context.Background(), buf.Bytes(), "odd.docx")
	require.Error(t, err)
}
