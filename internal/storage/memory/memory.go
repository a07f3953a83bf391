// Package memory is a process-local storage.Store used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu sync.Mutex

	now func() time.Time

	candidates   map[int64]*models.Candidate
	jobs         map[int64]*models.JobListing
	applications map[int64]*models.JobApplication
	interviews   map[int64]*models.Interview
	prompts      map[string]*models.Prompt

	nextCandidate   int64
	nextJob         int64
	nextApplication int64
	nextInterview   int64
	nextPrompt      int64
}

func New() *Store {
	return &Store{
		now:          time.Now,
		candidates:   make(map[int64]*models.Candidate),
		jobs:         make(map[int64]*models.JobListing),
		applications: make(map[int64]*models.JobApplication),
		interviews:   make(map[int64]*models.Interview),
		prompts:      make(map[string]*models.Prompt),
	}
}

func (s *Store) Close() error { return nil }

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, models.ErrNotFound)
}

// Candidates

func (s *Store) UpsertCandidate(_ context.Context, profile *models.ParsedResume) (storage.UpsertResult, error) {
	if profile == nil {
		profile = &models.ParsedResume{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := deref(profile.Email)
	phone := deref(profile.PhoneNumber)

	existing, matchedBy := s.findByContact(email, phone)
	if existing == nil {
		s.nextCandidate++
		c := &models.Candidate{ID: s.nextCandidate, Access: models.InterviewAccess{Valid: true}}
		c.Name = deref(profile.Name)
		if email != "" || phone != "" {
			c.Contact = &models.Contact{Email: email, PhoneNumber: phone}
		}
		replaceCollections(c, profile)
		s.candidates[c.ID] = c
		return storage.UpsertResult{CandidateID: c.ID, Created: true}, nil
	}

	if name := deref(profile.Name); name != "" && name != existing.Name {
		existing.Name = name
	}
	if email != "" {
		existing.Contact.Email = email
	}
	if phone != "" {
		existing.Contact.PhoneNumber = phone
	}
	replaceCollections(existing, profile)

	return storage.UpsertResult{CandidateID: existing.ID, MatchedBy: matchedBy}, nil
}

// findByContact matches on email across all candidates before trying the phone number.
func (s *Store) findByContact(email, phone string) (*models.Candidate, string) {
	lookups := []struct {
		value string
		field func(*models.Contact) string
		key   string
	}{
		{value: email, field: func(c *models.Contact) string { return c.Email }, key: storage.MatchedByEmail},
		{value: phone, field: func(c *models.Contact) string { return c.PhoneNumber }, key: storage.MatchedByPhone},
	}

	ids := s.sortedCandidateIDs()
	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		for _, id := range ids {
			c := s.candidates[id]
			if c.Contact != nil && l.field(c.Contact) == l.value {
				return c, l.key
			}
		}
	}
	return nil, ""
}

func replaceCollections(c *models.Candidate, profile *models.ParsedResume) {
	c.Skills = profile.SkillList()
	c.Projects = append([]models.Project(nil), profile.Projects...)
	c.Experiences = append([]models.Experience(nil), profile.Experiences...)
	c.Educations = nil
	if profile.Education != nil {
		c.Educations = []models.Education{*profile.Education}
	}
}

func (s *Store) GetCandidate(_ context.Context, id int64) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[id]
	if !ok {
		return nil, notFound("candidate", id)
	}
	return cloneCandidate(c), nil
}

func (s *Store) DeleteCandidate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[id]; !ok {
		return notFound("candidate", id)
	}
	delete(s.candidates, id)
	for appID, app := range s.applications {
		if app.CandidateID == id {
			delete(s.applications, appID)
		}
	}
	for ivID, iv := range s.interviews {
		if iv.CandidateID == id {
			delete(s.interviews, ivID)
		}
	}
	return nil
}

func (s *Store) ListCandidates(_ context.Context) ([]*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Candidate, 0, len(s.candidates))
	for _, id := range s.sortedCandidateIDs() {
		c := cloneCandidate(s.candidates[id])
		c.Interviews = s.candidateInterviews(id)
		result = append(result, c)
	}
	return result, nil
}

func (s *Store) candidateInterviews(candidateID int64) []models.Interview {
	var result []models.Interview
	for _, iv := range s.interviews {
		if iv.CandidateID == candidateID {
			result = append(result, *iv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *Store) sortedCandidateIDs() []int64 {
	ids := make([]int64, 0, len(s.candidates))
	for id := range s.candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Interview tokens

func (s *Store) SetInterviewAccess(_ context.Context, candidateID int64, access models.InterviewAccess) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[candidateID]
	if !ok {
		return notFound("candidate", candidateID)
	}
	c.Access = cloneAccess(access)
	return nil
}

func (s *Store) FindCandidateByToken(_ context.Context, token string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.sortedCandidateIDs() {
		c := s.candidates[id]
		if c.Access.Token != nil && *c.Access.Token == token && c.Access.Valid && !c.Access.Interviewed {
			return cloneCandidate(c), nil
		}
	}
	return nil, notFound("interview token", "")
}

func (s *Store) InvalidateToken(_ context.Context, candidateID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[candidateID]
	if !ok {
		return notFound("candidate", candidateID)
	}
	c.Access.Valid = false
	return nil
}

func (s *Store) ConsumeToken(_ context.Context, candidateID int64, interview *models.Interview) (*models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, notFound("candidate", candidateID)
	}
	if c.Access.Token == nil {
		return nil, fmt.Errorf("candidate %d has no interview token: %w", candidateID, models.ErrInvalidToken)
	}

	s.nextInterview++
	stored := *interview
	stored.ID = s.nextInterview
	stored.CandidateID = candidateID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}
	s.interviews[stored.ID] = &stored

	c.Access = models.InterviewAccess{Interviewed: true}

	out := stored
	return &out, nil
}

func (s *Store) EndInterview(_ context.Context, candidateID int64) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, notFound("candidate", candidateID)
	}
	c.Access = models.InterviewAccess{Interviewed: true}
	return cloneCandidate(c), nil
}

// Jobs

func (s *Store) CreateJob(_ context.Context, job *models.JobListing) (*models.JobListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJob++
	stored := *job
	stored.ID = s.nextJob
	if stored.DatePosted.IsZero() {
		stored.DatePosted = s.now().UTC()
	}
	s.jobs[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *Store) GetJob(_ context.Context, id int64) (*models.JobListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, notFound("job", id)
	}
	out := *job
	return &out, nil
}

func (s *Store) UpdateJob(_ context.Context, job *models.JobListing) (*models.JobListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[job.ID]
	if !ok {
		return nil, notFound("job", job.ID)
	}
	stored := *job
	stored.DatePosted = existing.DatePosted
	s.jobs[job.ID] = &stored

	out := stored
	return &out, nil
}

func (s *Store) DeleteJob(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return notFound("job", id)
	}
	delete(s.jobs, id)
	for appID, app := range s.applications {
		if app.JobID == id {
			delete(s.applications, appID)
		}
	}
	return nil
}

func (s *Store) ListJobs(_ context.Context, limit, offset int) ([]*models.JobListing, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []*models.JobListing
	for _, id := range window(ids, limit, offset) {
		job := *s.jobs[id]
		result = append(result, &job)
	}
	return result, len(ids), nil
}

// Applications

func (s *Store) CreateApplication(_ context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[app.JobID]; !ok {
		return nil, notFound("job", app.JobID)
	}
	if _, ok := s.candidates[app.CandidateID]; !ok {
		return nil, notFound("candidate", app.CandidateID)
	}

	s.nextApplication++
	stored := *app
	stored.ID = s.nextApplication
	s.applications[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *Store) RecordMatch(_ context.Context, id int64, score float64, status models.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return notFound("application", id)
	}
	app.MatchScore = &score
	app.Status = status
	return nil
}

func (s *Store) GetApplication(_ context.Context, id int64) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, notFound("application", id)
	}
	return cloneApplication(app), nil
}

func (s *Store) DeleteApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[id]; !ok {
		return notFound("application", id)
	}
	delete(s.applications, id)
	return nil
}

func (s *Store) ListApplications(_ context.Context, limit, offset int) ([]*models.JobApplication, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.applications))
	for id := range s.applications {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var result []*models.JobApplication
	for _, id := range window(ids, limit, offset) {
		result = append(result, cloneApplication(s.applications[id]))
	}
	return result, len(ids), nil
}

func (s *Store) ListCandidateApplications(_ context.Context, candidateID int64) ([]*models.ApplicationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.ApplicationSummary
	for _, app := range s.applications {
		if app.CandidateID != candidateID {
			continue
		}
		summary := &models.ApplicationSummary{JobApplication: *cloneApplication(app)}
		if job, ok := s.jobs[app.JobID]; ok {
			summary.JobTitle = job.Title
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Prompts

func (s *Store) GetPrompt(_ context.Context, name string) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[name]
	if !ok {
		return nil, notFound("prompt", name)
	}
	return clonePrompt(p), nil
}

func (s *Store) ListPrompts(_ context.Context) ([]*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		result = append(result, clonePrompt(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) CreatePrompt(_ context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[prompt.Name]; ok {
		return nil, fmt.Errorf("prompt %q already exists: %w", prompt.Name, models.ErrInvalidInput)
	}
	return s.putPrompt(prompt), nil
}

func (s *Store) UpdatePrompt(_ context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[prompt.Name]; !ok {
		return nil, notFound("prompt", prompt.Name)
	}
	return s.putPrompt(prompt), nil
}

func (s *Store) SavePrompt(_ context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putPrompt(prompt), nil
}

func (s *Store) putPrompt(prompt *models.Prompt) *models.Prompt {
	stored := clonePrompt(prompt)
	if existing, ok := s.prompts[prompt.Name]; ok {
		stored.ID = existing.ID
	} else {
		s.nextPrompt++
		stored.ID = s.nextPrompt
	}
	s.prompts[stored.Name] = stored
	return clonePrompt(stored)
}

func (s *Store) DeletePrompt(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[name]; !ok {
		return notFound("prompt", name)
	}
	delete(s.prompts, name)
	return nil
}

func window(ids []int64, limit, offset int) []int64 {
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func cloneCandidate(c *models.Candidate) *models.Candidate {
	out := *c
	if c.Contact != nil {
		contact := *c.Contact
		out.Contact = &contact
	}
	out.Skills = append([]string(nil), c.Skills...)
	out.Projects = append([]models.Project(nil), c.Projects...)
	out.Experiences = append([]models.Experience(nil), c.Experiences...)
	out.Educations = append([]models.Education(nil), c.Educations...)
	out.Interviews = append([]models.Interview(nil), c.Interviews...)
	out.Access = cloneAccess(c.Access)
	return &out
}

func cloneAccess(a models.InterviewAccess) models.InterviewAccess {
	out := a
	if a.Token != nil {
		token := *a.Token
		out.Token = &token
	}
	if a.Expiry != nil {
		expiry := *a.Expiry
		out.Expiry = &expiry
	}
	return out
}

func cloneApplication(app *models.JobApplication) *models.JobApplication {
	out := *app
	if app.MatchScore != nil {
		score := *app.MatchScore
		out.MatchScore = &score
	}
	return &out
}

func clonePrompt(p *models.Prompt) *models.Prompt {
	out := *p
	out.RequiredElements = append([]string(nil), p.RequiredElements...)
	return &out
}
