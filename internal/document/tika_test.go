package document

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTikaConfig(url string) config.TikaConfig {
	return config.TikaConfig{
		Enabled: true,
		URL:     url,
		Timeout: 5 * time.Second,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}
}

func TestTikaExtract(t *testing.T) {
	var gotPath, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"X-TIKA:content": "\n\nEDUCATION\nBSc Computer Science\n",
			"dc:title": "Jane Doe CV",
			"dc:creator": ["Jane Doe", "Editor"],
			"xmp:CreatorTool": "Writer",
			"pdf:producer": "LibreOffice",
			"xmpTPg:NPages": "2"
		}, {"X-TIKA:content": "attachment"}]`)
	}))
	defer srv.Close()

	tika := NewTika(testTikaConfig(srv.URL+"/"), errors.NewLogger(slog.LevelError))
	doc, err := tika.Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "PUT /rmeta/text", gotPath)
	assert.Equal(t, "application/pdf", gotContentType)
	assert.Equal(t, "%PDF-1.4 fake", gotBody)

	assert.Equal(t, "EDUCATION\nBSc Computer Science", doc.Text)
	assert.Equal(t, "Jane Doe CV", doc.Info.Title)
	assert.Equal(t, "Jane Doe", doc.Info.Author)
	assert.Equal(t, "Writer", doc.Info.Creator)
	assert.Equal(t, "LibreOffice", doc.Info.Producer)
	assert.Equal(t, 2, doc.Info.Pages)
	assert.Equal(t, "pdf", doc.Info.Format)
}

func TestTikaRejectedDocumentDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	tika := NewTika(testTikaConfig(srv.URL), errors.NewLogger(slog.LevelError))
	for range 3 {
		_, err := tika.Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4"))
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeExtractionFailed, appErr.Code)
	}

	assert.True(t, tika.Breaker().IsHealthy())
	assert.Equal(t, "closed", tika.Breaker().Stats()["state"])
}

func TestTikaServerErrorsOpenBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tika := NewTika(testTikaConfig(srv.URL), errors.NewLogger(slog.LevelError))
	for range 2 {
		_, err := tika.Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4"))
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeExtractorUnavailable, appErr.Code)
	}
	require.False(t, tika.Breaker().IsHealthy())

	_, err := tika.Extract(context.Background(), "cv.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestTikaUnsupportedSkipsServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tika := NewTika(testTikaConfig(srv.URL), errors.NewLogger(slog.LevelError))
	_, err := tika.Extract(context.Background(), "photo.png", []byte{0xff, 0xd8, 0xff})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedDocument, appErr.Code)
	assert.Zero(t, hits.Load())
}

func TestMetaString(t *testing.T) {
	meta := map[string]any{
		"plain":  "value",
		"list":   []any{"first", "second"},
		"empty":  []any{},
		"number": 3.0,
	}

	assert.Equal(t, "value", metaString(meta, "plain"))
	assert.Equal(t, "first", metaString(meta, "list"))
	assert.Equal(t, "", metaString(meta, "empty"))
	assert.Equal(t, "", metaString(meta, "number"))
	assert.Equal(t, "", metaString(meta, "missing"))
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewCircuitBreaker("off", config.CircuitBreakerConfig{Enabled: false}, nil, nil)
	assert.Nil(t, cb)

	out, err := cb.Execute(func() (string, error) { return "ran", nil })
	require.NoError(t, err)
	assert.Equal(t, "ran", out)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, false, cb.Stats()["enabled"])
}
