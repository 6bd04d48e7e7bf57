package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/config"
	"resumeparser/internal/document"
	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/observability"
	"resumeparser/internal/pipeline"
	"resumeparser/internal/vocabulary"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumeparser",
	Short: "Extract structured sections from resumes",
	Long: `resumeparser reads PDF, DOCX and plain text resumes and splits them into
contact details, education, experience, projects, skills, certifications and
achievements. It scores how complete a resume is and can run as an HTTP service.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// buildPipeline wires the vocabulary, document extractor and observability
// into a pipeline service. The breaker is nil unless Tika is enabled.
func buildPipeline(cfg *config.Config, om *observability.ObservabilityManager, logger *errors.Logger) (*pipeline.Service, *vocabulary.Holder, *document.CircuitBreaker, error) {
	vocab, err := vocabulary.LoadOrDefault(cfg.Extraction.VocabularyFile)
	if err != nil {
		return nil, nil, nil, err
	}
	holder := vocabulary.NewHolder(vocab)

	docs, breaker := document.FromConfig(cfg.Document.Tika, logger)
	opts := extract.Options{
		BlobLineThreshold:        cfg.Extraction.BlobLineThreshold,
		SkillSupplementThreshold: cfg.Extraction.SkillSupplementThreshold,
	}

	return pipeline.New(holder, opts, docs, om, logger), holder, breaker, nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
