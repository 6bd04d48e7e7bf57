package cli

import (
	"context"
	"fmt"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/observability"
	"resumeparser/internal/server"
	"resumeparser/internal/session"
	"resumeparser/internal/vocabulary"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume parsing",
	Long: `Start an HTTP server that provides REST API endpoints for resume parsing.

Available endpoints:
- POST /parse: Parse resume text sent as JSON {"text": "..."}
- POST /quality: Score an already parsed resume
- POST /upload-resume: Upload a PDF, DOCX or text resume (multipart field "file")
- GET /analyze-resume: Parsed sections and quality of the last uploaded resume
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(flags *pflag.FlagSet, cfg *config.ServerConfig) {
	overrides := map[string]*string{
		"port":      &cfg.Port,
		"host":      &cfg.Host,
		"tls-mode":  &cfg.TLS.Mode,
		"cert-file": &cfg.TLS.CertFile,
		"key-file":  &cfg.TLS.KeyFile,
		"ca-file":   &cfg.TLS.CAFile,
	}
	for name, target := range overrides {
		if !flags.Changed(name) {
			continue
		}
		if value, err := flags.GetString(name); err == nil {
			*target = value
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	applyServeFlags(cmd.Flags(), &cfg.Server)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(cfg.Observability, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdownObservability(om, logger)

	store, err := session.New(cfg.Session, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.LogError(err, "Failed to close session store")
		}
	}()

	svc, holder, breaker, err := buildPipeline(cfg, om, logger)
	if err != nil {
		return err
	}

	if cfg.Extraction.WatchVocabulary && cfg.Extraction.VocabularyFile != "" {
		watcher := vocabulary.NewWatcher(cfg.Extraction.VocabularyFile, holder, cfg.Extraction.WatchDebounce, nil, logger)
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch vocabulary file: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.LogError(err, "Failed to stop vocabulary watcher")
			}
		}()
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	deps := server.Dependencies{
		Pipeline:      svc,
		Sessions:      store,
		Breaker:       breaker,
		Observability: om,
	}
	return server.NewServer(serverCfg, deps, logger).Start(cmd.Context())
}

func shutdownObservability(om *observability.ObservabilityManager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown observability")
	}
}
