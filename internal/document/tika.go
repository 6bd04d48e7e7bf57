package document

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/sony/gobreaker/v2"
)

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatText: "text/plain",
}

// Tika extracts text through an Apache Tika server's recursive metadata
// endpoint, which returns text and metadata in one call.
type Tika struct {
	url     string
	client  *http.Client
	breaker *CircuitBreaker
	logger  *errors.Logger
}

// NewTika creates a Tika client from configuration.
func NewTika(cfg config.TikaConfig, logger *errors.Logger) *Tika {
	return &Tika{
		url:     strings.TrimRight(cfg.URL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: NewCircuitBreaker("tika", cfg.CircuitBreaker, countsAgainstBreaker, logger),
		logger:  logger,
	}
}

// countsAgainstBreaker treats documents Tika rejected as successful calls so
// only an unhealthy server opens the breaker.
func countsAgainstBreaker(err error) bool {
	if err == nil {
		return true
	}
	var rejected *rejectedError
	return stderrors.As(err, &rejected)
}

type rejectedError struct {
	status int
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("tika rejected the document with status %d", e.status)
}

// Breaker exposes the circuit breaker for health reporting.
func (t *Tika) Breaker() *CircuitBreaker {
	return t.breaker
}

// Extract implements Extractor.
func (t *Tika) Extract(ctx context.Context, filename string, data []byte) (Document, error) {
	format, err := DetectFormat(filename, data)
	if err != nil {
		return Document{}, err
	}

	var meta map[string]any
	_, err = t.breaker.Execute(func() (string, error) {
		m, err := t.rmeta(ctx, filename, format, data)
		meta = m
		return "", err
	})
	if err != nil {
		return Document{}, t.classify(err, filename)
	}

	text := strings.TrimSpace(metaString(meta, "X-TIKA:content"))
	info := types.DocumentInfo{
		Title:    metaString(meta, "dc:title"),
		Author:   metaString(meta, "dc:creator"),
		Subject:  metaString(meta, "dc:subject"),
		Creator:  metaString(meta, "xmp:CreatorTool"),
		Producer: metaString(meta, "pdf:producer"),
	}
	if pages, err := strconv.Atoi(metaString(meta, "xmpTPg:NPages")); err == nil {
		info.Pages = pages
	}

	t.logger.Debug("Tika extraction completed", "filename", filename, "format", format, "characters", len(text))
	return finish(filename, format, text, info)
}

func (t *Tika) rmeta(ctx context.Context, filename string, format Format, data []byte) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.url+"/rmeta/text", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create tika request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypes[format])
	req.Header.Set("Accept", "application/json")
	if filename != "" {
		req.Header.Set("X-Tika-Resource-Name", filename)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tika request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnsupportedMediaType || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, &rejectedError{status: resp.StatusCode}
	default:
		return nil, fmt.Errorf("tika returned status %d", resp.StatusCode)
	}

	var results []map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<20)).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode tika response: %w", err)
	}
	if len(results) == 0 {
		return map[string]any{}, nil
	}
	// the first entry is the container document, the rest are attachments
	return results[0], nil
}

func (t *Tika) classify(err error, filename string) error {
	var rejected *rejectedError
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.As(err, &rejected):
		return errors.NewExtractionError(errors.ErrCodeExtractionFailed, "document extractor could not read the file", err).
			WithContext("filename", filename)
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		t.logger.Warn("Tika circuit breaker rejected request", "filename", filename)
		return errors.NewNetworkError(errors.ErrCodeExtractorUnavailable, "document extractor temporarily unavailable", err)
	default:
		t.logger.LogError(err, "Tika extraction failed", "filename", filename)
		return errors.NewNetworkError(errors.ErrCodeExtractorUnavailable, "document extractor request failed", err)
	}
}

// metaString reads a Tika metadata value, which is either a string or a list
// of strings.
func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
