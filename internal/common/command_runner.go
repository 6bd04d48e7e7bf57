package common

import (
	"context"

	"resumeparser/internal/errors"

	"golang.org/x/sync/errgroup"
)

// DocumentOperationFunc processes one input document.
type DocumentOperationFunc[Output any] func(ctx context.Context, file InputFile) (Output, error)

// BatchOptions bounds how documents are read and processed.
type BatchOptions struct {
	MaxFileSize int64
	Concurrency int
}

// RunDocumentCommand reads every file in args, runs operation on each with at
// most opts.Concurrency in flight, and writes the results in argument order.
// The first failure cancels the remaining work.
func RunDocumentCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	opts BatchOptions,
	operation DocumentOperationFunc[Output],
) error {
	outputs, err := RunBatch(ctx, logger, args, opts, operation)
	if err != nil {
		return err
	}

	items := make([]any, len(outputs))
	for i, out := range outputs {
		items[i] = out
	}
	return NewOutputHandler(logger).HandleOutputs(items, cmdConfig)
}

// RunBatch is RunDocumentCommand without the output step.
func RunBatch[Output any](
	ctx context.Context,
	logger *errors.Logger,
	args []string,
	opts BatchOptions,
	operation DocumentOperationFunc[Output],
) ([]Output, error) {
	fileProcessor := NewFileProcessor(logger, opts.MaxFileSize)
	outputs := make([]Output, len(args))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, filename := range args {
		g.Go(func() error {
			file, err := fileProcessor.ValidateAndReadFile(filename)
			if err != nil {
				return err
			}

			logger.Debug("Processing document", "filename", filename, "bytes", len(file.Data))
			out, err := operation(ctx, file)
			if err != nil {
				logger.LogError(err, "Failed to process document", "filename", filename)
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
