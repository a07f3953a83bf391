// Package pipeline runs a job application end to end: record, score,
// decide and, for qualified candidates, schedule an interview.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/interview"
	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// Threshold is the lowest score that earns an interview.
const Threshold = 7.0

type Evaluator interface {
	Score(ctx context.Context, job *models.JobListing, profile *models.ParsedResume) models.MatchResult
}

type Scheduler interface {
	Schedule(ctx context.Context, req models.CandidateJobRequest) (*interview.Scheduled, error)
}

type Orchestrator struct {
	jobs         storage.JobReader
	candidates   storage.CandidateReader
	applications storage.ApplicationStore
	evaluator    Evaluator
	scheduler    Scheduler
	logger       *zap.Logger

	now func() time.Time
}

func New(jobs storage.JobReader, candidates storage.CandidateReader, applications storage.ApplicationStore, evaluator Evaluator, scheduler Scheduler, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:         jobs,
		candidates:   candidates,
		applications: applications,
		evaluator:    evaluator,
		scheduler:    scheduler,
		logger:       logger.WithFields(log),
		now:          time.Now,
	}
}

// Qualifies reports whether a score meets the interview threshold.
func Qualifies(score float64) bool {
	return score >= Threshold
}

// ApplyForJob records a Pending application, scores the candidate and stores
// the final score and status. Upstream model failures surface as a Not
// Qualified result with a zero score. A scheduling or storage failure after
// the application is created leaves it Pending and returns the error.
func (o *Orchestrator) ApplyForJob(ctx context.Context, req models.CandidateJobRequest) (*models.ApplicationResult, error) {
	log := o.logger.With(logger.Job(req.JobID), logger.Candidate(req.CandidateID))

	job, err := o.jobs.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	app, err := o.applications.CreateApplication(ctx, &models.JobApplication{
		JobID:       job.ID,
		CandidateID: req.CandidateID,
		DateApplied: o.now().UTC(),
		Status:      models.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	log = log.With(logger.Application(app.ID))
	log.Info("application created")

	profile, err := o.profile(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}

	match := o.evaluator.Score(ctx, job, profile)
	log.Info("application scored", zap.Float64("match_score", match.Score))

	result := &models.ApplicationResult{
		ApplicationID: app.ID,
		JobID:         job.ID,
		CandidateID:   req.CandidateID,
		Status:        models.StatusNotQualified,
		Score:         match.Score,
		Explanation:   match.Explanation,
	}

	if Qualifies(match.Score) {
		scheduled, err := o.scheduler.Schedule(ctx, models.CandidateJobRequest{CandidateID: req.CandidateID, JobID: job.ID})
		if err != nil {
			log.Error("scheduling interview", zap.Error(err))
			return nil, fmt.Errorf("scheduling interview: %w", err)
		}
		result.Status = models.StatusInterviewScheduled
		result.InterviewLink = &scheduled.InterviewLink
	}

	if err := o.applications.RecordMatch(ctx, app.ID, result.Score, result.Status); err != nil {
		return nil, fmt.Errorf("recording match: %w", err)
	}

	log.Info("application decided", zap.String("status", string(result.Status)))
	return result, nil
}

// profile returns nil when the candidate has no stored profile; the scorer
// turns that into a zero score.
func (o *Orchestrator) profile(ctx context.Context, candidateID int64) (*models.ParsedResume, error) {
	candidate, err := o.candidates.GetCandidate(ctx, candidateID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading candidate profile: %w", err)
	}
	return candidate.Profile(), nil
}
