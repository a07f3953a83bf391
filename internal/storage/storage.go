// Package storage declares the persistence capability used by the recruiting
// pipeline. Implementations live in the postgres and memory subpackages.
package storage

import (
	"context"

	"github.com/edvenity/recruiter/internal/models"
)

// Upsert match keys.
const (
	MatchedByEmail = "email"
	MatchedByPhone = "phone"
)

// UpsertResult reports which candidate a profile was written to.
type UpsertResult struct {
	CandidateID int64
	Created     bool
	// MatchedBy is MatchedByEmail or MatchedByPhone when an existing contact matched.
	MatchedBy string
}

type CandidateReader interface {
	// GetCandidate returns the fully materialized candidate or models.ErrNotFound.
	GetCandidate(ctx context.Context, id int64) (*models.Candidate, error)
}

type CandidateStore interface {
	CandidateReader

	// UpsertCandidate writes the profile to the candidate owning the same email
	// or phone, replacing every sub-collection, or inserts a new candidate.
	// Profiles without email and phone are always inserted.
	UpsertCandidate(ctx context.Context, profile *models.ParsedResume) (UpsertResult, error)
	DeleteCandidate(ctx context.Context, id int64) error
	// ListCandidates returns all candidates with their interviews.
	ListCandidates(ctx context.Context) ([]*models.Candidate, error)
}

type TokenStore interface {
	CandidateReader

	SetInterviewAccess(ctx context.Context, candidateID int64, access models.InterviewAccess) error
	// FindCandidateByToken matches only valid, not yet interviewed candidates.
	FindCandidateByToken(ctx context.Context, token string) (*models.Candidate, error)
	InvalidateToken(ctx context.Context, candidateID int64) error
	// ConsumeToken stores the interview and clears the token in one transaction.
	// It returns models.ErrInvalidToken when the candidate holds no token.
	ConsumeToken(ctx context.Context, candidateID int64, interview *models.Interview) (*models.Interview, error)
	// EndInterview clears the token without recording an interview.
	EndInterview(ctx context.Context, candidateID int64) (*models.Candidate, error)
}

type JobReader interface {
	GetJob(ctx context.Context, id int64) (*models.JobListing, error)
}

type JobStore interface {
	JobReader

	CreateJob(ctx context.Context, job *models.JobListing) (*models.JobListing, error)
	UpdateJob(ctx context.Context, job *models.JobListing) (*models.JobListing, error)
	DeleteJob(ctx context.Context, id int64) error
	// ListJobs returns a window ordered by job_id and the total count.
	ListJobs(ctx context.Context, limit, offset int) ([]*models.JobListing, int, error)
}

type ApplicationStore interface {
	// CreateApplication returns models.ErrNotFound when the job or candidate is missing.
	CreateApplication(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error)
	// RecordMatch writes the final score and status of an application.
	RecordMatch(ctx context.Context, id int64, score float64, status models.ApplicationStatus) error
	GetApplication(ctx context.Context, id int64) (*models.JobApplication, error)
	DeleteApplication(ctx context.Context, id int64) error
	// ListApplications returns a window ordered newest first and the total count.
	ListApplications(ctx context.Context, limit, offset int) ([]*models.JobApplication, int, error)
	ListCandidateApplications(ctx context.Context, candidateID int64) ([]*models.ApplicationSummary, error)
}

type PromptStore interface {
	GetPrompt(ctx context.Context, name string) (*models.Prompt, error)
	ListPrompts(ctx context.Context) ([]*models.Prompt, error)
	CreatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error)
	UpdatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error)
	// SavePrompt creates the prompt or overwrites the one with the same name.
	SavePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error)
	DeletePrompt(ctx context.Context, name string) error
}

// Store is the complete persistence capability.
type Store interface {
	CandidateStore
	TokenStore
	JobStore
	ApplicationStore
	PromptStore

	Close() error
}
