package cli

import (
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/vocabulary"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the effective extraction vocabulary as YAML",
	Long: `Print the section headers, blob keywords, section synonyms and skills the
extractor uses. With --file (or extraction.vocabularyFile in the config) the
file is merged over the built-in defaults first, so the output is a complete
starting point for a custom vocabulary.`,
	Args: cobra.NoArgs,
	RunE: runVocab,
}

var vocabOpts struct {
	file   string
	output string
}

func init() {
	vocabCmd.Flags().StringVar(&vocabOpts.file, "file", "", "Vocabulary file to merge over the defaults (default from config)")
	vocabCmd.Flags().StringVarP(&vocabOpts.output, "output", "o", "", "Output file path (default: stdout)")
}

func runVocab(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	path := vocabOpts.file
	if path == "" {
		path = cfg.Extraction.VocabularyFile
	}
	vocab, err := vocabulary.LoadOrDefault(path)
	if err != nil {
		return err
	}

	data, err := vocabulary.Marshal(vocab)
	if err != nil {
		return err
	}

	if vocabOpts.output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	}

	fp := common.NewFileProcessor(logger, 0)
	if err := fp.ValidateOutputFile(vocabOpts.output); err != nil {
		return err
	}
	if err := fp.WriteFile(vocabOpts.output, string(data)); err != nil {
		return err
	}
	logger.Info("Vocabulary written", "file", vocabOpts.output, "stats", vocab.Stats())
	return nil
}
