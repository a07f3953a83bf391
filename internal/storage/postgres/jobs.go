package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvenity/recruiter/internal/models"
)

const jobColumns = `job_id, title, description, location, salary, date_posted, is_opened`

func (s *Store) CreateJob(ctx context.Context, job *models.JobListing) (*models.JobListing, error) {
	stored := *job
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO job_listing (title, description, location, salary, is_opened)
		VALUES ($1, $2, $3, $4, $5) RETURNING job_id, date_posted`,
		job.Title, job.Description, job.Location, job.Salary, job.IsOpened,
	).Scan(&stored.ID, &stored.DatePosted)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	stored.DatePosted = stored.DatePosted.UTC()
	return &stored, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*models.JobListing, error) {
	job, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job_listing WHERE job_id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

func (s *Store) UpdateJob(ctx context.Context, job *models.JobListing) (*models.JobListing, error) {
	updated, err := scanJob(s.db.QueryRowContext(ctx,
		`UPDATE job_listing SET title = $1, description = $2, location = $3, salary = $4, is_opened = $5
		WHERE job_id = $6 RETURNING `+jobColumns,
		job.Title, job.Description, job.Location, job.Salary, job.IsOpened, job.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("job", job.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return updated, nil
}

func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM job_listing WHERE job_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}
	return expectAffected(res, "job", id)
}

func (s *Store) ListJobs(ctx context.Context, limit, offset int) ([]*models.JobListing, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_listing`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM job_listing ORDER BY job_id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.JobListing
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

func scanJob(row rowScanner) (*models.JobListing, error) {
	var job models.JobListing
	if err := row.Scan(&job.ID, &job.Title, &job.Description, &job.Location, &job.Salary, &job.DatePosted, &job.IsOpened); err != nil {
		return nil, err
	}
	job.DatePosted = job.DatePosted.UTC()
	return &job, nil
}
