package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"resumeparser/internal/cli"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A .env file is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}

	logger.Debug("Starting resumeparser",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"tika_enabled", cfg.Document.Tika.Enabled,
		"session_backend", cfg.Session.Backend)

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}

// loadConfig reads RESUMEPARSER_CONFIG when it names a file and otherwise
// searches the default locations.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv(config.EnvPrefix + "_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.LoadConfig()
}
