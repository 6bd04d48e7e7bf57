// Package document turns uploaded resume files into plain text.
package document

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// Document is the text of a file plus what is known about the file itself.
type Document struct {
	Text string
	Info types.DocumentInfo
}

// Extractor pulls plain text out of a document's bytes.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (Document, error)
}

var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
}

// SupportedExtensions lists the file extensions DetectFormat recognises.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".text", ".md"}
}

// DetectFormat decides the format from the file extension, falling back to
// the content's magic bytes when the extension is missing or unknown.
func DetectFormat(filename string, data []byte) (Format, error) {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return f, nil
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF, nil
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatDOCX, nil
	case len(data) > 0 && utf8.Valid(data):
		return FormatText, nil
	}

	return "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
		"unsupported document type; expected PDF, DOCX or plain text", nil).
		WithContext("filename", filename)
}

// Fallback tries each extractor in turn and returns the first success.
// Unsupported documents are not retried.
type Fallback []Extractor

// Extract implements Extractor.
func (f Fallback) Extract(ctx context.Context, filename string, data []byte) (Document, error) {
	var lastErr error
	for _, e := range f {
		doc, err := e.Extract(ctx, filename, data)
		if err == nil {
			return doc, nil
		}
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeUnsupportedDocument {
			return Document{}, err
		}
		if ctx.Err() != nil {
			return Document{}, ctx.Err()
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.NewInternalError(errors.ErrCodeExtractorUnavailable, "no document extractor configured", nil)
	}
	return Document{}, lastErr
}

func finish(filename string, format Format, text string, info types.DocumentInfo) (Document, error) {
	info.Filename = filename
	info.Format = string(format)
	info.Characters = utf8.RuneCountInString(text)
	if strings.TrimSpace(text) == "" {
		return Document{}, errors.NewValidationError(errors.ErrCodeEmptyDocument,
			"could not extract any text from the document", nil).
			WithContext("filename", filename)
	}
	return Document{Text: text, Info: info}, nil
}

// FromConfig returns the local extractor, or Tika with a local fallback when
// Tika is enabled. The breaker is nil unless Tika is in use.
func FromConfig(cfg config.TikaConfig, logger *errors.Logger) (Extractor, *CircuitBreaker) {
	if !cfg.Enabled {
		return NewLocal(), nil
	}
	tika := NewTika(cfg, logger)
	logger.Info("Using Tika document extraction with local fallback", "url", cfg.URL)
	return Fallback{tika, NewLocal()}, tika.Breaker()
}
