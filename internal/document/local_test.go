package document

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"resumeparser/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>EDUCATION</w:t></w:r></w:p>
<w:p><w:r><w:t>BSc Computer Science</w:t></w:r></w:p>
<w:p><w:r><w:t>SKILLS</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Go, </w:t></w:r><w:r><w:t>SQL &amp; Docker</w:t></w:r></w:p>
<w:p><w:r><w:t>Col A</w:t><w:tab/><w:t>Col B</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLocalText(t *testing.T) {
	doc, err := NewLocal().Extract(context.Background(), "resume.txt", []byte("\xef\xbb\xbfEDUCATION\nBSc"))
	require.NoError(t, err)

	assert.Equal(t, "EDUCATION\nBSc", doc.Text)
	assert.Equal(t, "resume.txt", doc.Info.Filename)
	assert.Equal(t, "text", doc.Info.Format)
	assert.Equal(t, 13, doc.Info.Characters)
}

func TestLocalDOCX(t *testing.T) {
	doc, err := NewLocal().Extract(context.Background(), "resume.docx", buildDOCX(t, documentXML))
	require.NoError(t, err)

	assert.Equal(t, "EDUCATION\nBSc Computer Science\nSKILLS\nGo, SQL & Docker\nCol A\tCol B", doc.Text)
	assert.Equal(t, "docx", doc.Info.Format)
}

func TestLocalEmptyDocument(t *testing.T) {
	_, err := NewLocal().Extract(context.Background(), "blank.txt", []byte("  \n\t "))
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEmptyDocument, appErr.Code)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestLocalCorruptDocuments(t *testing.T) {
	tests := []struct {
		filename string
		data     []byte
	}{
		{"broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf")},
		{"broken.docx", []byte("PK\x03\x04not a zip archive")},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, err := NewLocal().Extract(context.Background(), tt.filename, tt.data)
			require.Error(t, err)

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeExtractionFailed, appErr.Code)
			assert.Equal(t, tt.filename, appErr.Context["filename"])
		})
	}
}

func TestLocalCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocal().Extract(ctx, "resume.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocxTextInvalidXML(t *testing.T) {
	_, err := docxText("<w:document><w:p>")
	assert.Error(t, err)
}
