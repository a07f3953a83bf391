package api

import (
	"net/http"

	"github.com/edvenity/recruiter/internal/models"
)

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Prompts.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Prompt{}
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var p models.Prompt
	if err := decodeJSON(r, &p); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.svc.Prompts.Create(r.Context(), &p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Prompts.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var p models.Prompt
	if err := decodeJSON(r, &p); err != nil {
		s.respondError(w, r, err)
		return
	}
	p.Name = r.PathValue("name")

	updated, err := s.svc.Prompts.Update(r.Context(), &p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.svc.Prompts.Delete(r.Context(), name); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Prompt deleted successfully", "name": name})
}
