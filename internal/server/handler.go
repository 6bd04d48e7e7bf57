package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/session"
	"resumeparser/internal/types"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

func (s *Server) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return s.Observability.Tracer("resumeparser.api").Start(r.Context(), name)
}

// parseHandler extracts sections from plain resume text
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.parse")
	defer span.End()

	var req types.ParseTextInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeRequestError(w, span, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeRequestError(w, span, err)
		return
	}
	span.SetAttributes(attribute.Int("request.text_length", len(req.Text)))

	result, err := s.Pipeline.ParseText(ctx, req.Text)
	if err != nil {
		s.writeAppError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// qualityHandler scores an already parsed resume
func (s *Server) qualityHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "api.quality")
	defer span.End()

	var resume types.ParsedResume
	if err := parseJSONRequest(r, &resume); err != nil {
		s.writeRequestError(w, span, err)
		return
	}

	report := s.Pipeline.Analyze(resume)
	span.SetAttributes(attribute.Int("completeness", report.CompletenessScore))
	writeJSON(w, http.StatusOK, report)
}

// uploadHandler extracts a resume document, parses it and stores it as the
// current session resume
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.upload_resume")
	defer span.End()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeRequestError(w, span, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeRequestError(w, span, fmt.Errorf("form field \"file\" is required: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeRequestError(w, span, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}
	span.SetAttributes(
		attribute.String("upload.filename", header.Filename),
		attribute.Int("upload.bytes", len(data)),
	)

	result, err := s.Pipeline.ParseDocument(ctx, header.Filename, data)
	if err != nil {
		s.writeAppError(w, span, err)
		return
	}

	characters := result.Resume.Metadata.TotalCharacters
	if result.Document != nil {
		characters = result.Document.Characters
	}
	record := session.NewRecord(header.Filename, characters, result.Resume)
	if err := s.Sessions.Save(ctx, record); err != nil {
		s.writeAppError(w, span, err)
		return
	}

	s.Logger.Info("Resume uploaded",
		"id", record.ID,
		"filename", record.Filename,
		"characters", characters,
		"completeness", result.Quality.CompletenessScore)

	writeJSON(w, http.StatusOK, types.UploadSummary{
		ID:                  record.ID,
		Filename:            record.Filename,
		CharactersExtracted: characters,
		SkillsFound:         result.Resume.Skills.Len(),
		ProjectsFound:       len(result.Resume.Projects),
		Quality:             result.Quality,
	})
}

// analyzeResumeHandler returns the current session resume with a fresh
// quality report
func (s *Server) analyzeResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "api.analyze_resume")
	defer span.End()

	record, err := s.Sessions.Current(ctx)
	if err != nil {
		s.writeAppError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionAnalysisResponse{
		ID:         record.ID,
		Filename:   record.Filename,
		UploadedAt: record.UploadedAt,
		Resume:     record.Resume,
		Quality:    s.Pipeline.Analyze(record.Resume),
	})
}

// writeRequestError reports a malformed request body
func (s *Server) writeRequestError(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		writeErrorResponse(w, errors.ErrCodeFileTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit), http.StatusRequestEntityTooLarge)
		return
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		writeErrorResponse(w, errors.ErrCodeInvalidRequest, describeValidation(fieldErrs), http.StatusBadRequest)
		return
	}

	writeErrorResponse(w, errors.ErrCodeInvalidRequest, err.Error(), http.StatusBadRequest)
}

// writeAppError maps a pipeline or session error onto an HTTP status
func (s *Server) writeAppError(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "status", status)
	}

	if appErr, ok := errors.AsAppError(err); ok {
		span.SetAttributes(attribute.String("error.type", string(appErr.Type)))
		writeErrorResponse(w, appErr.Code, appErr.Message, status)
		return
	}
	writeErrorResponse(w, http.StatusText(status), err.Error(), status)
}

func statusForError(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case errors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeUnsupportedDocument:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeExtractorUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeNoResumeUploaded, errors.ErrCodeEmptyDocument:
		return http.StatusBadRequest
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func describeValidation(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s field is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
