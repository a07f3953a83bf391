// Package prompts resolves named prompt templates. Stored templates take
// precedence over the built-in defaults.
package prompts

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// Built-in prompt names.
const (
	ResumeParsing      = "RESUME_PARSING_PROMPT"
	MatchingEvaluation = "MATCHING_EVALUATION_PROMPT"
	JobDescription     = "JOB_DESCRIPTION_PROMPT"
)

// Template placeholders.
const (
	KeyResumeText   = "RESUME_TEXT"
	KeyJobDetails   = "JOB_DETAILS"
	KeyParsedResume = "PARSED_RESUME"
	KeyTitle        = "TITLE"
	KeyKeywords     = "KEYWORDS"
)

//go:embed templates/*.md
var templates embed.FS

var defaultFiles = map[string]string{
	ResumeParsing:      "templates/resume_parsing.md",
	MatchingEvaluation: "templates/matching_evaluation.md",
	JobDescription:     "templates/job_description.md",
}

var defaultRequired = map[string][]string{
	ResumeParsing:      {Placeholder(KeyResumeText)},
	MatchingEvaluation: {Placeholder(KeyJobDetails), Placeholder(KeyParsedResume)},
	JobDescription:     {Placeholder(KeyTitle), Placeholder(KeyKeywords)},
}

// Placeholder returns the template marker for key.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

// Defaults returns the built-in prompts.
func Defaults() []*models.Prompt {
	result := make([]*models.Prompt, 0, len(defaultFiles))
	for _, name := range []string{ResumeParsing, MatchingEvaluation, JobDescription} {
		content, err := templates.ReadFile(defaultFiles[name])
		if err != nil {
			panic(fmt.Sprintf("embedded prompt %s: %v", name, err))
		}
		result = append(result, &models.Prompt{
			Name:             name,
			Content:          string(content),
			RequiredElements: append([]string(nil), defaultRequired[name]...),
		})
	}
	return result
}

func defaultPrompt(name string) (*models.Prompt, bool) {
	for _, p := range Defaults() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Validate reports the required elements missing from the prompt content.
func Validate(p *models.Prompt) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("prompt name is required: %w", models.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("prompt %s has no content: %w", p.Name, models.ErrInvalidInput)
	}

	var missing []string
	for _, element := range p.RequiredElements {
		if element = strings.TrimSpace(element); element != "" && !strings.Contains(p.Content, element) {
			missing = append(missing, element)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("prompt %s is missing required elements %s: %w", p.Name, strings.Join(missing, ", "), models.ErrInvalidInput)
	}
	return nil
}

// Library renders prompts by name.
type Library struct {
	store  storage.PromptStore
	logger *zap.Logger
}

// NewLibrary creates a Library. A nil store serves only the built-in defaults.
func NewLibrary(store storage.PromptStore, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{store: store, logger: logger}
}

// Template returns the stored template or the built-in default.
func (l *Library) Template(ctx context.Context, name string) (string, error) {
	if l.store != nil {
		p, err := l.store.GetPrompt(ctx, name)
		switch {
		case err == nil:
			return p.Content, nil
		case !errors.Is(err, models.ErrNotFound):
			return "", fmt.Errorf("loading prompt %s: %w", name, err)
		}
	}

	p, ok := defaultPrompt(name)
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, models.ErrNotFound)
	}
	l.logger.Debug("using built-in prompt", zap.String("prompt", name))
	return p.Content, nil
}

// Render fills the {{KEY}} placeholders of the named template.
func (l *Library) Render(ctx context.Context, name string, values map[string]string) (string, error) {
	template, err := l.Template(ctx, name)
	if err != nil {
		return "", err
	}
	return Fill(template, values), nil
}

func Fill(template string, values map[string]string) string {
	for key, value := range values {
		template = strings.ReplaceAll(template, Placeholder(key), value)
	}
	return template
}

// Seed stores the built-in prompts, overwriting stored ones with the same name.
func Seed(ctx context.Context, store storage.PromptStore) ([]*models.Prompt, error) {
	var saved []*models.Prompt
	for _, p := range Defaults() {
		stored, err := store.SavePrompt(ctx, p)
		if err != nil {
			return saved, fmt.Errorf("seeding %s: %w", p.Name, err)
		}
		saved = append(saved, stored)
	}
	return saved, nil
}
