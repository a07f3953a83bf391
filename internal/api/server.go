// Package api exposes the recruiting services over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/filtering"
	"github.com/edvenity/recruiter/internal/interview"
	"github.com/edvenity/recruiter/internal/jobs"
	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/pipeline"
	"github.com/edvenity/recruiter/internal/prompts"
	"github.com/edvenity/recruiter/internal/resume"
	"github.com/edvenity/recruiter/internal/storage"
)

const defaultMaxUpload = 10 << 20

// Services are the components the HTTP handlers delegate to.
type Services struct {
	Ingestor   *resume.Ingestor
	Pipeline   *pipeline.Orchestrator
	Interviews *interview.Manager
	Jobs       *jobs.Service
	Describer  *jobs.Describer
	Candidates storage.CandidateStore
	Dashboard  *filtering.Dashboard
	Prompts    *prompts.Service
}

type Options struct {
	AllowedOrigins []string
	// MaxUploadBytes caps multipart resume uploads.
	MaxUploadBytes int64
}

// Server handles HTTP requests.
type Server struct {
	svc    Services
	opts   Options
	logger *zap.Logger
}

func NewServer(svc Services, opts Options, log *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	return &Server{svc: svc, opts: opts, logger: logger.WithFields(log)}
}

// Handler returns the routed handler wrapped in the CORS and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/resume/upload", s.handleUpload)

	mux.HandleFunc("GET /api/v1/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/v1/jobs", s.handleCreateJob)
	mux.HandleFunc("POST /api/v1/jobs/describe", s.handleDescribeJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /api/v1/jobs/{id}", s.handleUpdateJob)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", s.handleDeleteJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/apply", s.handleApply)

	mux.HandleFunc("GET /api/v1/applications", s.handleListApplications)
	mux.HandleFunc("GET /api/v1/applications/{id}", s.handleGetApplication)
	mux.HandleFunc("DELETE /api/v1/applications/{id}", s.handleDeleteApplication)

	mux.HandleFunc("GET /api/v1/candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("DELETE /api/v1/candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("GET /api/v1/candidates/{id}/applications", s.handleCandidateApplications)

	mux.HandleFunc("POST /api/v1/interview/schedule", s.handleSchedule)
	mux.HandleFunc("GET /api/v1/interview/validate/{token}", s.handleValidate)
	mux.HandleFunc("POST /api/v1/interview/end-of-call", s.handleEndOfCall)
	mux.HandleFunc("POST /api/v1/interview/end/{candidateID}", s.handleEndInterview)

	mux.HandleFunc("GET /api/v1/admin/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/v1/prompts", s.handleListPrompts)
	mux.HandleFunc("POST /api/v1/prompts", s.handleCreatePrompt)
	mux.HandleFunc("GET /api/v1/prompts/{name}", s.handleGetPrompt)
	mux.HandleFunc("PUT /api/v1/prompts/{name}", s.handleUpdatePrompt)
	mux.HandleFunc("DELETE /api/v1/prompts/{name}", s.handleDeletePrompt)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}

// respondError maps domain errors to status codes.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidToken), errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %v: %w", err, models.ErrInvalidInput)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q is not a positive integer: %w", name, raw, models.ErrInvalidInput)
	}
	return id, nil
}

// pageParams reads page and page_size, defaulting page to 1.
func pageParams(r *http.Request) (int, int, error) {
	page, size := 1, 0
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("page %q is not an integer: %w", raw, models.ErrInvalidInput)
		}
		page = v
	}
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("page_size %q is not a non-negative integer: %w", raw, models.ErrInvalidInput)
		}
		size = v
	}
	return page, size, nil
}

// queryOptionalBool returns nil when the parameter is absent.
func queryOptionalBool(r *http.Request, name string) (*bool, error) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, nil
	}
	v, err := queryBool(r, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s %q is not a boolean: %w", name, raw, models.ErrInvalidInput)
	}
	return v, nil
}
