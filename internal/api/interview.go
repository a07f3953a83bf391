package api

import (
	"net/http"

	"github.com/edvenity/recruiter/internal/models"
)

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	scheduled, err := s.svc.Interviews.Schedule(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, scheduled)
}

// handleValidate returns the full candidate profile the interview agent starts from.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	candidate, err := s.svc.Interviews.Validate(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

// handleEndOfCall stores the voice agent's end-of-call report and consumes the token.
func (s *Server) handleEndOfCall(w http.ResponseWriter, r *http.Request) {
	var envelope callEnvelope
	if err := decodeJSON(r, &envelope); err != nil {
		s.respondError(w, r, err)
		return
	}

	if !envelope.Message.isEndOfCall() {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ignored", "type": envelope.Message.Type})
		return
	}

	candidateID, err := envelope.Message.candidateID()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	interview, err := s.svc.Interviews.Complete(r.Context(), candidateID, envelope.Message.report())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, interview)
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "candidateID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	candidate, err := s.svc.Interviews.End(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message":      "Interview ended successfully",
		"candidate_id": candidate.ID,
		"access":       candidate.Access,
	})
}
