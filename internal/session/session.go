// Package session keeps the most recently uploaded resume.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/google/uuid"
)

// ErrNoResume matches, via errors.Is, the error Current returns when nothing
// has been uploaded yet.
var ErrNoResume = stderrors.New("no resume uploaded")

// noResume builds a fresh error per call so callers may attach context.
func noResume() *errors.AppError {
	return errors.NewValidationError(errors.ErrCodeNoResumeUploaded,
		"No resume uploaded. Please upload a resume first.", ErrNoResume)
}

// Record is the stored upload. Quality is not stored; callers recompute it.
type Record struct {
	ID         string             `json:"id"`
	Filename   string             `json:"filename"`
	UploadedAt time.Time          `json:"uploadedAt"`
	Characters int                `json:"characters"`
	Resume     types.ParsedResume `json:"resume"`
}

// NewRecord stamps a parsed resume with a fresh ID and upload time.
func NewRecord(filename string, characters int, resume types.ParsedResume) Record {
	return Record{
		ID:         uuid.NewString(),
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
		Characters: characters,
		Resume:     resume,
	}
}

// Store holds a single current resume. Save replaces whatever was there.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Current(ctx context.Context) (Record, error)
	Ping(ctx context.Context) error
	Close() error
}

// New builds the store selected by cfg.Backend.
func New(cfg config.SessionConfig, logger *errors.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		logger.Debug("Using in-memory session store")
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.Redis, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown session backend: %s", cfg.Backend), nil)
	}
}
