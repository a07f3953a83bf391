// Package matching scores how well a candidate profile fits a job.
package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/ai"
	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/prompts"
	"github.com/edvenity/recruiter/internal/storage"
)

const (
	MinScore = 0
	MaxScore = 10

	defaultMaxLogLength = 200
)

type promptRenderer interface {
	Render(ctx context.Context, name string, values map[string]string) (string, error)
}

// Scorer never returns an error: every failure becomes a zero score with an explanation.
type Scorer struct {
	completer  ai.Completer
	prompts    promptRenderer
	jobs       storage.JobReader
	candidates storage.CandidateReader
	logger     *zap.Logger
	maxLogLen  int
}

func NewScorer(completer ai.Completer, prompts promptRenderer, jobs storage.JobReader, candidates storage.CandidateReader, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Scorer{
		completer:  completer,
		prompts:    prompts,
		jobs:       jobs,
		candidates: candidates,
		logger:     logger.WithCommonFields(log, "", completer.Model()),
		maxLogLen:  maxLogLength,
	}
}

// Evaluate loads the job and the candidate profile and scores them.
func (s *Scorer) Evaluate(ctx context.Context, jobID, candidateID int64) models.MatchResult {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return s.fail("Job not found.", err, logger.Job(jobID))
	}

	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return s.fail(fmt.Sprintf("Resume for candidate %d not found.", candidateID), err, logger.Candidate(candidateID))
	}

	return s.Score(ctx, job, candidate.Profile())
}

// Score compares a job with a normalized profile.
func (s *Scorer) Score(ctx context.Context, job *models.JobListing, profile *models.ParsedResume) models.MatchResult {
	if job == nil {
		return s.fail("Job not found.", nil)
	}
	if profile == nil {
		return s.fail("Resume for candidate not found.", nil, logger.Job(job.ID))
	}

	jobJSON, err := json.MarshalIndent(job.Details(), "", "  ")
	if err != nil {
		return s.fail("Error during matching process: encoding job details.", err, logger.Job(job.ID))
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return s.fail("Error during matching process: encoding candidate profile.", err, logger.Job(job.ID))
	}

	prompt, err := s.prompts.Render(ctx, prompts.MatchingEvaluation, map[string]string{
		prompts.KeyJobDetails:   string(jobJSON),
		prompts.KeyParsedResume: string(profileJSON),
	})
	if err != nil {
		return s.fail("Error during matching process: matching prompt unavailable.", err, logger.Job(job.ID))
	}

	s.logger.Debug("matching request",
		logger.Job(job.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return s.fail(fmt.Sprintf("Error during matching process: %v", err), err, logger.Job(job.ID))
	}

	s.logger.Debug("matching response",
		logger.Job(job.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	if strings.TrimSpace(raw) == "" {
		return s.fail("Error: Empty response from model.", nil, logger.Job(job.ID))
	}

	result, err := ParseResult(raw)
	if err != nil {
		return s.fail(fmt.Sprintf("Error parsing model response: %v", err), err, logger.Job(job.ID))
	}

	return result
}

// ParseResult decodes {"match_score", "explanation"} and clamps the score.
func ParseResult(raw string) (models.MatchResult, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return models.MatchResult{}, err
	}

	score := ai.CoerceFloat(data["match_score"])
	if math.IsNaN(score) {
		return models.MatchResult{}, errors.New("match_score is missing or not a number")
	}

	explanation := ai.CoerceString(data["explanation"])
	if explanation == "" {
		explanation = "No explanation provided."
	}

	return models.MatchResult{Score: Clamp(score), Explanation: explanation}, nil
}

// Clamp limits score to [MinScore, MaxScore].
func Clamp(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return MinScore
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

func (s *Scorer) fail(explanation string, err error, fields ...zap.Field) models.MatchResult {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("matching failed, scoring zero", append(fields, zap.String("explanation", explanation))...)
	return models.MatchResult{Score: MinScore, Explanation: explanation}
}
