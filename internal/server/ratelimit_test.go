package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg config.RateLimitConfig) (*RateLimiter, *time.Time) {
	t.Helper()
	l := NewRateLimiter(cfg, errors.NewLogger(slog.LevelError))
	t.Cleanup(l.Close)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestRateLimiterScopes(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.RateLimitConfig
		textAllowed  int
		docsAllowed  int
		wantDocRetry time.Duration
	}{
		{
			name:         "separate upload budget",
			cfg:          config.RateLimitConfig{RequestsPerMin: 60, BurstCapacity: 3, UploadRequestsPerMin: 6, UploadBurstCapacity: 1},
			textAllowed:  3,
			docsAllowed:  1,
			wantDocRetry: 10 * time.Second,
		},
		{
			name:         "uploads inherit text budget",
			cfg:          config.RateLimitConfig{RequestsPerMin: 30, BurstCapacity: 2},
			textAllowed:  2,
			docsAllowed:  2,
			wantDocRetry: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLimiter(t, tt.cfg)

			for i := 0; i < tt.textAllowed; i++ {
				ok, _ := l.Allow(ScopeText, "ip:10.0.0.1")
				require.True(t, ok, "text request %d", i)
			}
			ok, _ := l.Allow(ScopeText, "ip:10.0.0.1")
			assert.False(t, ok)

			for i := 0; i < tt.docsAllowed; i++ {
				ok, _ := l.Allow(ScopeDocument, "ip:10.0.0.1")
				require.True(t, ok, "document request %d", i)
			}
			ok, retry := l.Allow(ScopeDocument, "ip:10.0.0.1")
			assert.False(t, ok)
			assert.InDelta(t, tt.wantDocRetry.Seconds(), retry.Seconds(), 0.001)
		})
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	l, clock := newTestLimiter(t, config.RateLimitConfig{RequestsPerMin: 60, BurstCapacity: 1})

	ok, _ := l.Allow(ScopeText, "api:key")
	require.True(t, ok)
	ok, _ = l.Allow(ScopeText, "api:key")
	require.False(t, ok)

	*clock = clock.Add(time.Second)
	ok, _ = l.Allow(ScopeText, "api:key")
	assert.True(t, ok)
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, config.RateLimitConfig{RequestsPerMin: 60, BurstCapacity: 1})

	l.Allow(ScopeText, "ip:10.0.0.1")
	*clock = clock.Add(5 * time.Minute)
	l.Allow(ScopeDocument, "ip:10.0.0.2")
	*clock = clock.Add(6 * time.Minute)

	assert.Equal(t, 1, l.evictIdle(idleEviction))
	assert.Equal(t, 1, l.Stats()["active_limiters"])

	// An evicted client starts again with a full bucket.
	l.Allow(ScopeText, "ip:10.0.0.1")
	assert.Equal(t, 2, l.Stats()["active_limiters"])
}

func TestRateLimiterCloseTwice(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60}, errors.NewLogger(slog.LevelError))
	assert.NotPanics(t, func() {
		l.Close()
		l.Close()
	})
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{"api key header", map[string]string{"X-API-Key": "k1"}, true, true, "api:k1"},
		{"bearer token", map[string]string{"Authorization": "Bearer k2"}, true, false, "api:k2"},
		{"no key falls back to ip", nil, true, true, "ip:192.0.2.1"},
		{"api metering off", map[string]string{"X-API-Key": "k1"}, false, true, "ip:192.0.2.1"},
		{"unmetered", map[string]string{"Authorization": "Basic abc"}, true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/parse", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientKey(req, tt.byAPIKey, tt.byIP))
		})
	}
}
