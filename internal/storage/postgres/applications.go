package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvenity/recruiter/internal/models"
)

const applicationColumns = `application_id, job_id, candidate_id, date_applied, status, match_score`

func (s *Store) CreateApplication(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	stored := *app
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO job_application (job_id, candidate_id, date_applied, status, match_score)
		VALUES ($1, $2, $3, $4, $5) RETURNING application_id`,
		app.JobID, app.CandidateID, app.DateApplied, string(app.Status), nullFloat(app.MatchScore),
	).Scan(&stored.ID)
	if pqCode(err) == codeForeignKeyViolation {
		return nil, fmt.Errorf("job %d or candidate %d: %w", app.JobID, app.CandidateID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return &stored, nil
}

func (s *Store) RecordMatch(ctx context.Context, id int64, score float64, status models.ApplicationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE job_application SET match_score = $1, status = $2 WHERE application_id = $3`,
		score, string(status), id,
	)
	if err != nil {
		return fmt.Errorf("record match of application %d: %w", id, err)
	}
	return expectAffected(res, "application", id)
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	app, err := scanApplication(s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM job_application WHERE application_id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("application", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return app, nil
}

func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM job_application WHERE application_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	return expectAffected(res, "application", id)
}

func (s *Store) ListApplications(ctx context.Context, limit, offset int) ([]*models.JobApplication, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_application`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM job_application ORDER BY application_id DESC LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.JobApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return apps, total, nil
}

func (s *Store) ListCandidateApplications(ctx context.Context, candidateID int64) ([]*models.ApplicationSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.application_id, a.job_id, a.candidate_id, a.date_applied, a.status, a.match_score, j.title
		FROM job_application a JOIN job_listing j ON j.job_id = a.job_id
		WHERE a.candidate_id = $1 ORDER BY a.application_id DESC`, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications of candidate %d: %w", candidateID, err)
	}
	defer rows.Close()

	var result []*models.ApplicationSummary
	for rows.Next() {
		var (
			summary models.ApplicationSummary
			status  string
			score   sql.NullFloat64
		)
		if err := rows.Scan(&summary.ID, &summary.JobID, &summary.CandidateID, &summary.DateApplied,
			&status, &score, &summary.JobTitle); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		summary.Status = models.ApplicationStatus(status)
		summary.MatchScore = floatPtr(score)
		summary.DateApplied = summary.DateApplied.UTC()
		result = append(result, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications of candidate %d: %w", candidateID, err)
	}

	return result, nil
}

func scanApplication(row rowScanner) (*models.JobApplication, error) {
	var (
		app    models.JobApplication
		status string
		score  sql.NullFloat64
	)
	if err := row.Scan(&app.ID, &app.JobID, &app.CandidateID, &app.DateApplied, &status, &score); err != nil {
		return nil, err
	}
	app.Status = models.ApplicationStatus(status)
	app.MatchScore = floatPtr(score)
	app.DateApplied = app.DateApplied.UTC()
	return &app, nil
}
