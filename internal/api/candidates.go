package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/edvenity/recruiter/internal/filtering"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/resume"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %v: %w", err, models.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file uploaded: %w", models.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("reading upload: %w", err))
		return
	}

	result, err := s.svc.Ingestor.UploadAndParse(r.Context(), resume.Upload{Filename: header.Filename, Data: data})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	candidate, err := s.svc.Candidates.GetCandidate(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.Candidates.DeleteCandidate(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"message": "Candidate deleted successfully", "candidate_id": id})
}

func (s *Server) handleCandidateApplications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.svc.Candidates.GetCandidate(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.svc.Jobs.CandidateApplications(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		params filtering.DashboardParams
		errs   []error
		err    error
	)
	params.Skill = r.URL.Query().Get("skill")
	params.Interviewed, err = queryOptionalBool(r, filtering.Interviewed)
	errs = append(errs, err)
	params.NonInterviewedExpired, err = queryBool(r, filtering.NonInterviewedExpired)
	errs = append(errs, err)
	params.PendingInterviews, err = queryBool(r, filtering.PendingInterviews)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.svc.Dashboard.View(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}
