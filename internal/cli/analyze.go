package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Score how complete a resume is",
	Long: `Parse a resume and report only its quality analysis:

- Completeness score (0-100) over education, experience, projects and skills
- Missing sections
- Strengths found
- Recommendations for improvement`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyOutputDefaults(cmd.Context(), &analyzeConfig)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	registerFormatCompletion(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	svc, _, _, err := buildPipeline(cfg, nil, logger)
	if err != nil {
		return err
	}

	err = common.RunDocumentCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		common.BatchOptions{MaxFileSize: cfg.App.MaxFileSize, Concurrency: 1},
		func(ctx context.Context, file common.InputFile) (types.QualityReport, error) {
			result, err := svc.ParseDocument(ctx, file.Name, file.Data)
			if err != nil {
				return types.QualityReport{}, err
			}
			logger.Info("Resume analyzed",
				"filename", file.Name,
				"completeness", result.Quality.CompletenessScore,
				"missing_sections", len(result.Quality.MissingSections))
			return result.Quality, nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	return nil
}
