package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvenity/recruiter/internal/models"
)

const interviewColumns = `interview_id, candidate_id, start_time, end_time, duration, transcript, summary,
	recording_url, video_recording_url, success_evaluation, created_at`

func (s *Store) SetInterviewAccess(ctx context.Context, candidateID int64, access models.InterviewAccess) error {
	var token sql.NullString
	if access.Token != nil {
		token = nullString(*access.Token)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE candidate SET interview_token = $1, token_expiry = $2, is_valid = $3, is_interviewed = $4 WHERE candidate_id = $5`,
		token, nullTime(access.Expiry), access.Valid, access.Interviewed, candidateID,
	)
	if err != nil {
		return fmt.Errorf("set interview access of candidate %d: %w", candidateID, err)
	}
	return expectAffected(res, "candidate", candidateID)
}

func (s *Store) FindCandidateByToken(ctx context.Context, token string) (*models.Candidate, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT candidate_id FROM candidate WHERE interview_token = $1 AND is_valid AND NOT is_interviewed`, token,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("interview token", "")
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate by token: %w", err)
	}
	return s.GetCandidate(ctx, id)
}

func (s *Store) InvalidateToken(ctx context.Context, candidateID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE candidate SET is_valid = FALSE WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return fmt.Errorf("invalidate token of candidate %d: %w", candidateID, err)
	}
	return expectAffected(res, "candidate", candidateID)
}

func (s *Store) ConsumeToken(ctx context.Context, candidateID int64, interview *models.Interview) (*models.Interview, error) {
	stored := *interview
	stored.CandidateID = candidateID

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var token sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT interview_token FROM candidate WHERE candidate_id = $1 FOR UPDATE`, candidateID,
		).Scan(&token)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("candidate", candidateID)
		}
		if err != nil {
			return fmt.Errorf("lock candidate %d: %w", candidateID, err)
		}
		if !token.Valid {
			return fmt.Errorf("candidate %d has no interview token: %w", candidateID, models.ErrInvalidToken)
		}

		if err := tx.QueryRowContext(ctx,
			`INSERT INTO interview (candidate_id, start_time, end_time, duration, transcript, summary,
				recording_url, video_recording_url, success_evaluation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING interview_id, created_at`,
			candidateID, nullTime(stored.StartTime), nullTime(stored.EndTime), nullFloat(stored.DurationSeconds),
			stored.Transcript, stored.Summary, stored.RecordingURL, stored.VideoRecordingURL, stored.SuccessEvaluation,
		).Scan(&stored.ID, &stored.CreatedAt); err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE candidate SET interview_token = NULL, token_expiry = NULL, is_interviewed = TRUE, is_valid = FALSE WHERE candidate_id = $1`,
			candidateID,
		); err != nil {
			return fmt.Errorf("clear token of candidate %d: %w", candidateID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored.CreatedAt = stored.CreatedAt.UTC()
	return &stored, nil
}

func (s *Store) EndInterview(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE candidate SET interview_token = NULL, token_expiry = NULL, is_interviewed = TRUE, is_valid = FALSE WHERE candidate_id = $1`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("end interview of candidate %d: %w", candidateID, err)
	}
	if err := expectAffected(res, "candidate", candidateID); err != nil {
		return nil, err
	}
	return s.GetCandidate(ctx, candidateID)
}

func listInterviews(ctx context.Context, q querier, candidateID int64) ([]models.Interview, error) {
	var interviews []models.Interview
	err := collect(ctx, q, `SELECT `+interviewColumns+` FROM interview WHERE candidate_id = $1 ORDER BY interview_id`, candidateID,
		func(rows *sql.Rows) error {
			var (
				iv         models.Interview
				start, end sql.NullTime
				duration   sql.NullFloat64
			)
			if err := rows.Scan(&iv.ID, &iv.CandidateID, &start, &end, &duration, &iv.Transcript, &iv.Summary,
				&iv.RecordingURL, &iv.VideoRecordingURL, &iv.SuccessEvaluation, &iv.CreatedAt); err != nil {
				return err
			}
			iv.StartTime = timePtr(start)
			iv.EndTime = timePtr(end)
			iv.DurationSeconds = floatPtr(duration)
			interviews = append(interviews, iv)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load interviews of candidate %d: %w", candidateID, err)
	}
	return interviews, nil
}
