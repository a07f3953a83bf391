package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/ai"
	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/prompts"
)

type promptRenderer interface {
	Render(ctx context.Context, name string, values map[string]string) (string, error)
}

// Draft is a generated job posting, ready to be reviewed and saved.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	IsOpened    bool     `json:"is_opened"`
}

type generated struct {
	Overview         string   `json:"overview"`
	Responsibilities []string `json:"key_responsibilities"`
	RequiredSkills   []string `json:"required_skills"`
}

// Describer drafts job descriptions with a language model.
type Describer struct {
	completer ai.Completer
	prompts   promptRenderer
	logger    *zap.Logger
}

func NewDescriber(completer ai.Completer, prompts promptRenderer, log *zap.Logger) *Describer {
	return &Describer{
		completer: completer,
		prompts:   prompts,
		logger:    logger.WithCommonFields(log, "", completer.Model()),
	}
}

func (d *Describer) Describe(ctx context.Context, title string, keywords []string) (*Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrInvalidInput)
	}

	prompt, err := d.prompts.Render(ctx, prompts.JobDescription, map[string]string{
		prompts.KeyTitle:    title,
		prompts.KeyKeywords: strings.Join(keywords, ", "),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering job description prompt: %w", err)
	}

	raw, err := d.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating job description: %v: %w", err, models.ErrUpstream)
	}
	d.logger.Debug("job description response", zap.Int("response_length", utf8.RuneCountInString(raw)))

	content, err := parseGenerated(raw)
	if err != nil {
		d.logger.Warn("decoding job description", zap.Error(err), zap.String("response_preview", logger.TruncateForLog(raw, 200)))
		return nil, fmt.Errorf("decoding job description: %v: %w", err, models.ErrUpstream)
	}

	if keywords == nil {
		keywords = []string{}
	}
	return &Draft{
		Title:       title,
		Description: content.format(),
		Keywords:    keywords,
		IsOpened:    true,
	}, nil
}

func parseGenerated(raw string) (generated, error) {
	var out generated

	data, err := ai.DecodeObject(raw)
	if err != nil {
		return out, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(data); err != nil {
		return out, err
	}

	out.Overview = strings.TrimSpace(out.Overview)
	if out.Overview == "" {
		return out, errors.New("overview is missing")
	}
	return out, nil
}

func (g generated) format() string {
	var b strings.Builder
	b.WriteString(g.Overview)
	b.WriteString(" Key Responsibilities:")
	for _, item := range g.Responsibilities {
		b.WriteString(" • ")
		b.WriteString(strings.TrimSpace(item))
	}
	b.WriteString(" Required Skills:")
	for _, item := range g.RequiredSkills {
		b.WriteString(" • ")
		b.WriteString(strings.TrimSpace(item))
	}
	return b.String()
}
