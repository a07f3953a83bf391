package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

const candidateColumns = `candidate_id, name, interview_token, token_expiry, is_valid, is_interviewed`

func (s *Store) UpsertCandidate(ctx context.Context, profile *models.ParsedResume) (storage.UpsertResult, error) {
	if profile == nil {
		profile = &models.ParsedResume{}
	}

	name := trimmed(profile.Name)
	email := trimmed(profile.Email)
	phone := trimmed(profile.PhoneNumber)

	var result storage.UpsertResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, matchedBy, err := findByContact(ctx, tx, email, phone)
		if err != nil {
			return err
		}

		if id == 0 {
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO candidate (name) VALUES ($1) RETURNING candidate_id`, name,
			).Scan(&id); err != nil {
				return fmt.Errorf("insert candidate: %w", err)
			}
			if email != "" || phone != "" {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO contact (candidate_id, email_address, phone_number) VALUES ($1, $2, $3)`,
					id, nullString(email), nullString(phone),
				); err != nil {
					return fmt.Errorf("insert contact: %w", err)
				}
			}
			result = storage.UpsertResult{CandidateID: id, Created: true}
		} else {
			if name != "" {
				if _, err := tx.ExecContext(ctx,
					`UPDATE candidate SET name = $1 WHERE candidate_id = $2 AND name <> $1`, name, id,
				); err != nil {
					return fmt.Errorf("update candidate name: %w", err)
				}
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE contact SET email_address = COALESCE($1, email_address), phone_number = COALESCE($2, phone_number) WHERE candidate_id = $3`,
				nullString(email), nullString(phone), id,
			); err != nil {
				return fmt.Errorf("update contact: %w", err)
			}
			result = storage.UpsertResult{CandidateID: id, MatchedBy: matchedBy}
		}

		return replaceCollections(ctx, tx, id, profile)
	})
	if err != nil {
		return storage.UpsertResult{}, err
	}

	return result, nil
}

func findByContact(ctx context.Context, q querier, email, phone string) (int64, string, error) {
	lookups := []struct {
		column, value, key string
	}{
		{column: "email_address", value: email, key: storage.MatchedByEmail},
		{column: "phone_number", value: phone, key: storage.MatchedByPhone},
	}

	for _, lookup := range lookups {
		if lookup.value == "" {
			continue
		}
		var id int64
		err := q.QueryRowContext(ctx,
			`SELECT candidate_id FROM contact WHERE `+lookup.column+` = $1 ORDER BY contact_id LIMIT 1`, lookup.value,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, "", fmt.Errorf("find contact by %s: %w", lookup.key, err)
		}
		return id, lookup.key, nil
	}

	return 0, "", nil
}

// replaceCollections deletes and re-inserts every owned sub-collection.
func replaceCollections(ctx context.Context, tx *sql.Tx, id int64, profile *models.ParsedResume) error {
	for _, table := range []string{"skill", "project", "experience", "education"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, skill := range profile.SkillList() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skill (candidate_id, skill_name) VALUES ($1, $2)`, id, skill,
		); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}

	for _, p := range profile.Projects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project (candidate_id, project_name, project_description) VALUES ($1, $2, $3)`,
			id, p.Name, p.Description,
		); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	}

	for _, e := range profile.Experiences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO experience (candidate_id, job_title, company_name, start_date, end_date) VALUES ($1, $2, $3, $4, $5)`,
			id, e.JobTitle, e.CompanyName, e.StartDate, e.EndDate,
		); err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	if edu := profile.Education; edu != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO education (candidate_id, degree, institution, start_date, end_date) VALUES ($1, $2, $3, $4, $5)`,
			id, edu.Degree, edu.Institution, edu.StartDate, edu.EndDate,
		); err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}

	return nil
}

func (s *Store) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidate WHERE candidate_id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("candidate", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %d: %w", id, err)
	}

	if err := loadDetails(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) DeleteCandidate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidate WHERE candidate_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate %d: %w", id, err)
	}
	return expectAffected(res, "candidate", id)
}

func (s *Store) ListCandidates(ctx context.Context) ([]*models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidate ORDER BY candidate_id`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var candidates []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	rows.Close()

	for _, c := range candidates {
		if err := loadDetails(ctx, s.db, c); err != nil {
			return nil, err
		}
		interviews, err := listInterviews(ctx, s.db, c.ID)
		if err != nil {
			return nil, err
		}
		c.Interviews = interviews
	}

	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c      models.Candidate
		token  sql.NullString
		expiry sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.Name, &token, &expiry, &c.Access.Valid, &c.Access.Interviewed); err != nil {
		return nil, err
	}
	if token.Valid {
		t := token.String
		c.Access.Token = &t
	}
	c.Access.Expiry = timePtr(expiry)
	return &c, nil
}

func loadDetails(ctx context.Context, q querier, c *models.Candidate) error {
	var email, phone sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT email_address, phone_number FROM contact WHERE candidate_id = $1 ORDER BY contact_id LIMIT 1`, c.ID,
	).Scan(&email, &phone)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("load contact of candidate %d: %w", c.ID, err)
	default:
		c.Contact = &models.Contact{Email: email.String, PhoneNumber: phone.String}
	}

	if err := collect(ctx, q, `SELECT skill_name FROM skill WHERE candidate_id = $1 ORDER BY skill_id`, c.ID,
		func(rows *sql.Rows) error {
			var skill string
			if err := rows.Scan(&skill); err != nil {
				return err
			}
			c.Skills = append(c.Skills, skill)
			return nil
		}); err != nil {
		return fmt.Errorf("load skills of candidate %d: %w", c.ID, err)
	}

	if err := collect(ctx, q, `SELECT project_name, project_description FROM project WHERE candidate_id = $1 ORDER BY project_id`, c.ID,
		func(rows *sql.Rows) error {
			var p models.Project
			if err := rows.Scan(&p.Name, &p.Description); err != nil {
				return err
			}
			c.Projects = append(c.Projects, p)
			return nil
		}); err != nil {
		return fmt.Errorf("load projects of candidate %d: %w", c.ID, err)
	}

	if err := collect(ctx, q, `SELECT job_title, company_name, start_date, end_date FROM experience WHERE candidate_id = $1 ORDER BY experience_id`, c.ID,
		func(rows *sql.Rows) error {
			var e models.Experience
			if err := rows.Scan(&e.JobTitle, &e.CompanyName, &e.StartDate, &e.EndDate); err != nil {
				return err
			}
			c.Experiences = append(c.Experiences, e)
			return nil
		}); err != nil {
		return fmt.Errorf("load experiences of candidate %d: %w", c.ID, err)
	}

	if err := collect(ctx, q, `SELECT degree, institution, start_date, end_date FROM education WHERE candidate_id = $1 ORDER BY education_id`, c.ID,
		func(rows *sql.Rows) error {
			var e models.Education
			if err := rows.Scan(&e.Degree, &e.Institution, &e.StartDate, &e.EndDate); err != nil {
				return err
			}
			c.Educations = append(c.Educations, e)
			return nil
		}); err != nil {
		return fmt.Errorf("load education of candidate %d: %w", c.ID, err)
	}

	return nil
}

func collect(ctx context.Context, q querier, query string, id int64, scan func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
