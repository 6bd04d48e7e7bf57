// Package pipeline runs documents and raw text through extraction and
// quality scoring.
package pipeline

import (
	"context"
	"sync"

	"resumeparser/internal/document"
	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/observability"
	"resumeparser/internal/quality"
	"resumeparser/internal/types"
	"resumeparser/internal/vocabulary"
)

// Service is safe for concurrent use. The extractor is rebuilt lazily
// whenever the vocabulary holder publishes a new vocabulary.
type Service struct {
	vocab  *vocabulary.Holder
	opts   extract.Options
	docs   document.Extractor
	obs    *observability.ObservabilityManager
	logger *errors.Logger

	mu        sync.Mutex
	extractor *extract.Extractor
	builtFor  *vocabulary.Vocabulary
}

// New creates a pipeline. docs may be nil when only text is parsed; obs may
// be nil to disable instrumentation.
func New(vocab *vocabulary.Holder, opts extract.Options, docs document.Extractor, obs *observability.ObservabilityManager, logger *errors.Logger) *Service {
	if vocab == nil {
		vocab = vocabulary.NewHolder(nil)
	}
	return &Service{
		vocab:  vocab,
		opts:   opts,
		docs:   docs,
		obs:    obs,
		logger: logger,
	}
}

// Vocabulary returns the vocabulary currently in use.
func (s *Service) Vocabulary() *vocabulary.Vocabulary {
	return s.vocab.Get()
}

func (s *Service) currentExtractor() *extract.Extractor {
	v := s.vocab.Get()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extractor == nil || s.builtFor != v {
		s.extractor = extract.New(v, s.opts)
		s.builtFor = v
	}
	return s.extractor
}

// ParseText extracts and scores raw resume text. It only fails when ctx is done.
func (s *Service) ParseText(ctx context.Context, raw string) (types.ParseResult, error) {
	return s.run(ctx, "text", raw, nil)
}

// ParseDocument extracts text from a document and parses it.
func (s *Service) ParseDocument(ctx context.Context, filename string, data []byte) (types.ParseResult, error) {
	if s.docs == nil {
		return types.ParseResult{}, errors.NewInternalError(errors.ErrCodeExtractorUnavailable,
			"no document extractor configured", nil)
	}

	doc, err := s.docs.Extract(ctx, filename, data)
	if err != nil {
		reason := "unknown"
		if appErr, ok := errors.AsAppError(err); ok {
			reason = appErr.Code
		}
		s.obs.RecordDocumentFailure(ctx, reason)
		return types.ParseResult{}, err
	}

	info := doc.Info
	s.logger.Debug("Document text extracted",
		"filename", info.Filename,
		"format", info.Format,
		"pages", info.Pages,
		"characters", info.Characters)

	return s.run(ctx, info.Format, doc.Text, &info)
}

// Analyze scores an already parsed resume.
func (s *Service) Analyze(resume types.ParsedResume) types.QualityReport {
	return quality.Analyze(resume)
}

func (s *Service) run(ctx context.Context, source, raw string, info *types.DocumentInfo) (types.ParseResult, error) {
	return s.obs.TrackExtraction(ctx, source, func(ctx context.Context) (types.ParseResult, error) {
		if err := ctx.Err(); err != nil {
			return types.ParseResult{}, err
		}

		resume := s.currentExtractor().Extract(raw)
		return types.ParseResult{
			Document: info,
			Resume:   resume,
			Quality:  quality.Analyze(resume),
		}, nil
	})
}
