package api

import (
	"net/http"

	"github.com/edvenity/recruiter/internal/models"
)

type applyRequest struct {
	CandidateID int64 `json:"candidate_id"`
}

type describeRequest struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.svc.Jobs.List(r.Context(), page, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.JobListing
	if err := decodeJSON(r, &job); err != nil {
		s.respondError(w, r, err)
		return
	}
	job.ID = 0

	created, err := s.svc.Jobs.Create(r.Context(), &job)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	job, err := s.svc.Jobs.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var job models.JobListing
	if err := decodeJSON(r, &job); err != nil {
		s.respondError(w, r, err)
		return
	}
	job.ID = id

	updated, err := s.svc.Jobs.Update(r.Context(), &job)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.Jobs.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"message": "Job deleted successfully", "job_id": id})
}

func (s *Server) handleDescribeJob(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	draft, err := s.svc.Describer.Describe(r.Context(), req.Title, req.Keywords)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, draft)
}

// handleApply runs apply_for_job. Scoring failures still answer 200 with a
// Not Qualified result.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.svc.Pipeline.ApplyForJob(r.Context(), models.CandidateJobRequest{CandidateID: req.CandidateID, JobID: jobID})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.svc.Jobs.ListApplications(r.Context(), page, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	app, err := s.svc.Jobs.GetApplication(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.Jobs.DeleteApplication(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"message": "Application deleted successfully", "application_id": id})
}
