package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger, 0),
		registry:      formatters.NewFormatterRegistry(),
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	output, err := oh.format(data, config.OutputFormat)
	if err != nil {
		return err
	}
	return oh.write(output, config)
}

// HandleOutputs writes several results. JSON output is a single array; other
// formats are rendered one after another.
func (oh *OutputHandler) HandleOutputs(items []any, config CommandConfig) error {
	if len(items) == 1 {
		return oh.HandleOutput(items[0], config)
	}
	if config.OutputFormat == "json" {
		return oh.HandleOutput(items, config)
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		out, err := oh.format(item, config.OutputFormat)
		if err != nil {
			return err
		}
		parts = append(parts, strings.TrimRight(out, "\n"))
	}
	return oh.write(strings.Join(parts, "\n\n---\n\n")+"\n", config)
}

func (oh *OutputHandler) format(data any, format string) (string, error) {
	output, err := oh.registry.Format(data, format)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", format), err)
	}
	return output, nil
}

func (oh *OutputHandler) write(output string, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	if config.OutputFile == "" {
		_, err := fmt.Fprint(oh.stdout, output)
		return err
	}

	if err := oh.fileProcessor.WriteFile(config.OutputFile, output); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully",
		"file", config.OutputFile, "format", config.OutputFormat)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
