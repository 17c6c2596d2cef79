package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDFParser struct {
	text  string
	err   error
	paths []string
}

func (p *stubPDFParser) ExtractText(path string) (string, error) {
	p.paths = append(p.paths, path)
	return p.text, p.err
}

func (p *stubPDFParser) ExtractTextWithMetaData(path string) (*PDFContent, error) {
	text, err := p.ExtractText(path)
	if err != nil {
		return nil, err
	}
	return &PDFContent{Text: text}, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["resume"][0]
}

func TestResumeExtractor(t *testing.T) {
	dir := t.TempDir()
	parser := &stubPDFParser{text: "Jane Doe, backend engineer"}
	extractor := NewResumeExtractor(NewStorageService(dir), parser, 1024)

	text, err := extractor.Extract(fileHeader(t, "cv.PDF", []byte("%PDF-1.4")))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe, backend engineer", text)
	require.Len(t, parser.paths, 1)
	_, statErr := os.Stat(parser.paths[0])
	assert.True(t, os.IsNotExist(statErr), "uploaded copy should be removed")
}

func TestResumeExtractorRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		parser  *stubPDFParser
	}{
		{"wrong extension", "cv.docx", []byte("data"), &stubPDFParser{text: "x"}},
		{"too large", "cv.pdf", bytes.Repeat([]byte("a"), 2048), &stubPDFParser{text: "x"}},
		{"unreadable", "cv.pdf", []byte("garbage"), &stubPDFParser{err: errors.New("malformed xref")}},
		{"no text", "cv.pdf", []byte("%PDF-1.4"), &stubPDFParser{text: "  \n "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewResumeExtractor(NewStorageService(t.TempDir()), tt.parser, 1024)

			_, err := extractor.Extract(fileHeader(t, tt.file, tt.content))

			assert.ErrorIs(t, err, ErrInvalidUpload)
		})
	}
}
