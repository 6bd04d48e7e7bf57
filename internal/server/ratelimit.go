package server

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"golang.org/x/time/rate"
)

// Scope names a rate limit budget. Text endpoints and document uploads are
// metered separately so a client can keep parsing text after spending its
// upload allowance.
type Scope string

const (
	ScopeText     Scope = "text"
	ScopeDocument Scope = "document"
)

const idleEviction = 10 * time.Minute

type bucketPolicy struct {
	limit rate.Limit
	burst int
}

func (p bucketPolicy) retryAfter() time.Duration {
	if p.limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(p.limit))
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per (scope, client) pair.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*clientBucket
	policies map[Scope]bucketPolicy
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	logger   *errors.Logger
}

// NewRateLimiter builds a limiter from the server rate limit settings. Upload
// values left at zero inherit the text budget.
func NewRateLimiter(cfg config.RateLimitConfig, logger *errors.Logger) *RateLimiter {
	text := policyFor(cfg.RequestsPerMin, cfg.BurstCapacity)
	document := text
	if cfg.UploadRequestsPerMin > 0 {
		document = policyFor(cfg.UploadRequestsPerMin, cfg.UploadBurstCapacity)
	}

	l := &RateLimiter{
		buckets: make(map[string]*clientBucket),
		policies: map[Scope]bucketPolicy{
			ScopeText:     text,
			ScopeDocument: document,
		},
		now:    time.Now,
		stop:   make(chan struct{}),
		logger: logger,
	}
	go l.evictLoop(idleEviction)
	return l
}

func policyFor(perMinute, burst int) bucketPolicy {
	if burst < 1 {
		burst = 1
	}
	return bucketPolicy{limit: rate.Limit(float64(perMinute) / 60.0), burst: burst}
}

// Allow reports whether client may spend one token from the scope's budget.
// When it may not, the returned duration is a hint for Retry-After.
func (l *RateLimiter) Allow(scope Scope, client string) (bool, time.Duration) {
	policy, ok := l.policies[scope]
	if !ok {
		policy = l.policies[ScopeText]
	}

	l.mu.Lock()
	key := string(scope) + "|" + client
	b, exists := l.buckets[key]
	if !exists {
		b = &clientBucket{limiter: rate.NewLimiter(policy.limit, policy.burst)}
		l.buckets[key] = b
	}
	now := l.now()
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if allowed {
		return true, 0
	}
	return false, policy.retryAfter()
}

// Stats reports bucket counts and the configured budgets per scope.
func (l *RateLimiter) Stats() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()

	active := map[Scope]int{}
	for key := range l.buckets {
		scope, _, _ := strings.Cut(key, "|")
		active[Scope(scope)]++
	}

	scopes := make(map[string]any, len(l.policies))
	for scope, p := range l.policies {
		scopes[string(scope)] = map[string]any{
			"active_clients":  active[scope],
			"rate_per_minute": float64(p.limit) * 60.0,
			"burst_capacity":  p.burst,
		}
	}
	return map[string]any{
		"active_limiters": len(l.buckets),
		"scopes":          scopes,
	}
}

func (l *RateLimiter) evictLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := l.evictIdle(every)
			l.logger.Debug("Evicted idle rate limit buckets", "removed", removed)
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets untouched for longer than idle and returns how many
// were removed.
func (l *RateLimiter) evictIdle(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Close stops the eviction goroutine. Safe to call more than once.
func (l *RateLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// rateLimitMiddleware meters requests against the given scope's budget.
func (s *Server) rateLimitMiddleware(scope Scope) func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimiter == nil || s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if client == "" {
				next(w, r)
				return
			}

			allowed, wait := s.RateLimiter.Allow(scope, client)
			if !allowed {
				keyType, _, _ := strings.Cut(client, ":")
				s.Logger.Info("Rate limit exceeded",
					"scope", scope,
					"key_type", keyType,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				s.Observability.RecordRateLimitHit(r.Context(), keyType)

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeErrorResponse(w, errors.ErrCodeRateLimited,
					fmt.Sprintf("Too many %s requests", scope), http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// clientKey identifies the caller for metering: API key when enabled and
// present, otherwise client IP when enabled. Empty means unmetered.
func clientKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		if key := requestAPIKey(r); key != "" {
			return "api:" + key
		}
	}
	if byIP {
		return "ip:" + getClientIP(r)
	}
	return ""
}

// requestAPIKey reads X-API-Key, falling back to an Authorization bearer token.
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

// getClientIP prefers proxy headers and falls back to the connection address.
func getClientIP(r *http.Request) string {
	for ip := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
