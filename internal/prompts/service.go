package prompts

import (
	"context"
	"strings"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// Service manages stored prompts.
type Service struct {
	store storage.PromptStore
}

func NewService(store storage.PromptStore) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, name string) (*models.Prompt, error) {
	return s.store.GetPrompt(ctx, strings.TrimSpace(name))
}

func (s *Service) List(ctx context.Context) ([]*models.Prompt, error) {
	return s.store.ListPrompts(ctx)
}

func (s *Service) Create(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return s.store.CreatePrompt(ctx, p)
}

func (s *Service) Update(ctx context.Context, p *models.Prompt) (*models.Prompt, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return s.store.UpdatePrompt(ctx, p)
}

func (s *Service) Delete(ctx context.Context, name string) error {
	return s.store.DeletePrompt(ctx, strings.TrimSpace(name))
}
