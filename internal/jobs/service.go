// Package jobs manages job listings and the applications filed against them.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// DefaultPageSize is used when a listing request does not name a size.
const DefaultPageSize = 15

type Store interface {
	storage.JobStore
	storage.ApplicationStore
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// window converts a 1-based page into limit and offset.
func window(page, size int) (int, int, error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be at least 1, got %d: %w", page, models.ErrInvalidInput)
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return size, (page - 1) * size, nil
}

func (s *Service) List(ctx context.Context, page, size int) (models.Page[*models.JobListing], error) {
	limit, offset, err := window(page, size)
	if err != nil {
		return models.Page[*models.JobListing]{}, err
	}

	items, total, err := s.store.ListJobs(ctx, limit, offset)
	if err != nil {
		return models.Page[*models.JobListing]{}, fmt.Errorf("listing jobs: %w", err)
	}
	return models.NewPage(items, total, page, limit), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.JobListing, error) {
	return s.store.GetJob(ctx, id)
}

func (s *Service) Create(ctx context.Context, job *models.JobListing) (*models.JobListing, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if job.DatePosted.IsZero() {
		job.DatePosted = s.now().UTC()
	}
	return s.store.CreateJob(ctx, job)
}

func (s *Service) Update(ctx context.Context, job *models.JobListing) (*models.JobListing, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if job.DatePosted.IsZero() {
		current, err := s.store.GetJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		job.DatePosted = current.DatePosted
	}
	return s.store.UpdateJob(ctx, job)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteJob(ctx, id)
}

func validateJob(job *models.JobListing) error {
	if job == nil {
		return fmt.Errorf("job is required: %w", models.ErrInvalidInput)
	}
	job.Title = strings.TrimSpace(job.Title)
	if job.Title == "" {
		return fmt.Errorf("job title is required: %w", models.ErrInvalidInput)
	}
	return nil
}

// Applications

func (s *Service) ListApplications(ctx context.Context, page, size int) (models.Page[*models.JobApplication], error) {
	limit, offset, err := window(page, size)
	if err != nil {
		return models.Page[*models.JobApplication]{}, err
	}

	items, total, err := s.store.ListApplications(ctx, limit, offset)
	if err != nil {
		return models.Page[*models.JobApplication]{}, fmt.Errorf("listing applications: %w", err)
	}
	return models.NewPage(items, total, page, limit), nil
}

func (s *Service) GetApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	return s.store.GetApplication(ctx, id)
}

func (s *Service) DeleteApplication(ctx context.Context, id int64) error {
	return s.store.DeleteApplication(ctx, id)
}

// CandidateApplications lists the candidate's applications with job titles, newest first.
func (s *Service) CandidateApplications(ctx context.Context, candidateID int64) ([]*models.ApplicationSummary, error) {
	items, err := s.store.ListCandidateApplications(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.ApplicationSummary{}
	}
	return items, nil
}
