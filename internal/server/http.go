package server

import (
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/document"
	resumeErrors "resumeparser/internal/errors"
	"resumeparser/internal/observability"
	"resumeparser/internal/pipeline"
	"resumeparser/internal/session"
	"resumeparser/internal/types"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SessionAnalysisResponse is the body of GET /analyze-resume
type SessionAnalysisResponse struct {
	ID         string              `json:"id"`
	Filename   string              `json:"filename"`
	UploadedAt time.Time           `json:"uploadedAt"`
	Resume     types.ParsedResume  `json:"resume"`
	Quality    types.QualityReport `json:"quality"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Pipeline      *pipeline.Service
	Sessions      session.Store
	Breaker       *document.CircuitBreaker
	Observability *observability.ObservabilityManager

	Logger *resumeErrors.Logger

	validate *validator.Validate
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Dependencies are the collaborators the handlers call into. Breaker and
// Observability may be nil.
type Dependencies struct {
	Pipeline      *pipeline.Service
	Sessions      session.Store
	Breaker       *document.CircuitBreaker
	Observability *observability.ObservabilityManager
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, deps Dependencies, logger *resumeErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(*cfg.RateLimit, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Pipeline:       deps.Pipeline,
		Sessions:       deps.Sessions,
		Breaker:        deps.Breaker,
		Observability:  deps.Observability,
		Logger:         logger,
		validate:       validator.New(),
	}
}
