package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-file]...",
	Short: "Parse one or more resumes into structured sections",
	Long: `Extract the text of each resume (PDF, DOCX, TXT or Markdown), split it into
sections and score its completeness.

Several files are parsed concurrently; results are printed in the order the
files were given. JSON output for more than one file is a single array.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateConcurrency(parseOpts.concurrency); err != nil {
			return err
		}
		return applyOutputDefaults(cmd.Context(), &parseConfig)
	},
	RunE: runParse,
}

var (
	parseConfig common.CommandConfig
	parseOpts   struct {
		concurrency int
		tika        bool
	}
)

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	parseCmd.Flags().IntVarP(&parseOpts.concurrency, "concurrency", "c", 4, "Number of files parsed at once")
	parseCmd.Flags().BoolVar(&parseOpts.tika, "tika", false, "Extract documents with Apache Tika (falls back to the built-in extractors)")
	registerFormatCompletion(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	runCfg := *cfg
	if parseOpts.tika {
		runCfg.Document.Tika.Enabled = true
	}
	svc, _, _, err := buildPipeline(&runCfg, nil, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting resume parsing",
		"files", len(args),
		"concurrency", parseOpts.concurrency,
		"tika", runCfg.Document.Tika.Enabled,
		"output_format", parseConfig.OutputFormat)

	err = common.RunDocumentCommand(
		cmd.Context(),
		logger,
		parseConfig,
		args,
		common.BatchOptions{MaxFileSize: cfg.App.MaxFileSize, Concurrency: parseOpts.concurrency},
		func(ctx context.Context, file common.InputFile) (types.ParseResult, error) {
			return svc.ParseDocument(ctx, file.Name, file.Data)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	logger.Info("Resume parsing completed successfully")
	return nil
}

// applyOutputDefaults fills in the configured default format and rejects
// formats the configuration does not allow
func applyOutputDefaults(ctx context.Context, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
