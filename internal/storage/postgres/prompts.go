package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/edvenity/recruiter/internal/models"
)

func (s *Store) GetPrompt(ctx context.Context, name string) (*models.Prompt, error) {
	p, err := scanPrompt(s.db.QueryRowContext(ctx,
		`SELECT prompt_id, name, content, required_elements FROM prompt WHERE name = $1`, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("prompt", name)
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt %q: %w", name, err)
	}
	return p, nil
}

func (s *Store) ListPrompts(ctx context.Context) ([]*models.Prompt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT prompt_id, name, content, required_elements FROM prompt ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*models.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

func (s *Store) CreatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	stored := *prompt
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO prompt (name, content, required_elements) VALUES ($1, $2, $3) RETURNING prompt_id`,
		prompt.Name, prompt.Content, pq.Array(prompt.RequiredElements),
	).Scan(&stored.ID)
	if pqCode(err) == codeUniqueViolation {
		return nil, fmt.Errorf("prompt %q already exists: %w", prompt.Name, models.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("insert prompt %q: %w", prompt.Name, err)
	}
	return &stored, nil
}

func (s *Store) UpdatePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	stored := *prompt
	err := s.db.QueryRowContext(ctx,
		`UPDATE prompt SET content = $1, required_elements = $2 WHERE name = $3 RETURNING prompt_id`,
		prompt.Content, pq.Array(prompt.RequiredElements), prompt.Name,
	).Scan(&stored.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("prompt", prompt.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("update prompt %q: %w", prompt.Name, err)
	}
	return &stored, nil
}

func (s *Store) SavePrompt(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	stored := *prompt
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO prompt (name, content, required_elements) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, required_elements = EXCLUDED.required_elements
		RETURNING prompt_id`,
		prompt.Name, prompt.Content, pq.Array(prompt.RequiredElements),
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("save prompt %q: %w", prompt.Name, err)
	}
	return &stored, nil
}

func (s *Store) DeletePrompt(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompt WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete prompt %q: %w", name, err)
	}
	return expectAffected(res, "prompt", name)
}

func scanPrompt(row rowScanner) (*models.Prompt, error) {
	var p models.Prompt
	if err := row.Scan(&p.ID, &p.Name, &p.Content, pq.Array(&p.RequiredElements)); err != nil {
		return nil, err
	}
	return &p, nil
}
