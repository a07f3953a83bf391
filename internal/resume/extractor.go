// Package resume turns uploaded resumes into normalized candidate profiles.
package resume

import (
	"context"
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

// ExtractionKind tags an Extraction.
type ExtractionKind int

const (
	// ExtractionOK carries a profile decoded from the model output.
	ExtractionOK ExtractionKind = iota
	// ExtractionDegraded carries an empty profile and the reason decoding failed.
	ExtractionDegraded
)

func (k ExtractionKind) String() string {
	switch k {
	case ExtractionOK:
		return "ok"
	case ExtractionDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("ExtractionKind(%d)", int(k))
	}
}

// Extraction is either Ok(profile) or Degraded(reason). Profile is never nil.
type Extraction struct {
	Kind    ExtractionKind
	Profile *models.ParsedResume
	Reason  string
}

func ok(profile *models.ParsedResume) Extraction {
	return Extraction{Kind: ExtractionOK, Profile: profile}
}

func degraded(reason string) Extraction {
	return Extraction{Kind: ExtractionDegraded, Profile: &models.ParsedResume{}, Reason: reason}
}

type promptRenderer interface {
	Render(ctx context.Context, name string, values map[string]string) (string, error)
}

// Extractor asks the completion model for a structured profile.
type Extractor struct {
	completer ai.Completer
	prompts   promptRenderer
	logger    *zap.Logger
	maxLogLen int
}

const defaultMaxLogLength = 200

func NewExtractor(completer ai.Completer, prompts promptRenderer, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Extractor{
		completer: completer,
		prompts:   prompts,
		logger:    logger.WithCommonFields(log, "", completer.Model()),
		maxLogLen: maxLogLength,
	}
}

// Extract never fails on bad model output; it degrades to an empty profile.
// Only prompt loading errors are returned.
func (e *Extractor) Extract(ctx context.Context, text string) (Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return e.degrade("resume text is empty"), nil
	}

	prompt, err := e.prompts.Render(ctx, prompts.ResumeParsing, map[string]string{prompts.KeyResumeText: text})
	if err != nil {
		return Extraction{}, fmt.Errorf("rendering resume prompt: %w", err)
	}

	e.logger.Debug("resume extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return e.degrade(fmt.Sprintf("completion failed: %v", err)), nil
	}

	e.logger.Debug("resume extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	if strings.TrimSpace(raw) == "" {
		return e.degrade("empty response from model"), nil
	}

	profile, err := ParseProfile(raw)
	if err != nil {
		return e.degrade(err.Error()), nil
	}

	return ok(profile), nil
}

func (e *Extractor) degrade(reason string) Extraction {
	e.logger.Warn("resume extraction degraded to empty profile", zap.String("reason", reason))
	return degraded(reason)
}

// ParseProfile decodes loosely formatted model output into a profile.
func ParseProfile(raw string) (*models.ParsedResume, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	normalized, _ := nullify(data).(map[string]any)
	normalizeShapes(normalized)

	var profile models.ParsedResume
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &profile,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(normalized); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	trimPtr(&profile.Name)
	trimPtr(&profile.Email)
	trimPtr(&profile.PhoneNumber)
	trimPtr(&profile.Skills)

	return &profile, nil
}

// nullify replaces literal "null" strings with real nulls.
func nullify(v any) any {
	switch val := v.(type) {
	case string:
		if strings.EqualFold(strings.TrimSpace(val), "null") {
			return nil
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = nullify(item)
		}
		return val
	case []any:
		out := val[:0]
		for _, item := range val {
			if item = nullify(item); item != nil {
				out = append(out, item)
			}
		}
		return out
	default:
		return v
	}
}

func normalizeShapes(data map[string]any) {
	if skills, isList := data["skills"].([]any); isList {
		joined := strings.Join(ai.CoerceStrings(skills), ", ")
		data["skills"] = joined
		if joined == "" {
			data["skills"] = nil
		}
	}

	switch edu := data["education"].(type) {
	case []any:
		data["education"] = nil
		if len(edu) > 0 {
			if first, isMap := edu[0].(map[string]any); isMap {
				data["education"] = first
			}
		}
	case string:
		data["education"] = map[string]any{"degree": edu}
	}

	for _, key := range []string{"projects", "experiences"} {
		switch val := data[key].(type) {
		case map[string]any:
			data[key] = []any{val}
		case []any:
			kept := make([]any, 0, len(val))
			for _, item := range val {
				if _, isMap := item.(map[string]any); isMap {
					kept = append(kept, item)
				}
			}
			data[key] = kept
		case nil:
		default:
			data[key] = nil
		}
	}
}

func trimPtr(s **string) {
	if *s == nil {
		return
	}
	v := strings.TrimSpace(**s)
	if v == "" {
		*s = nil
		return
	}
	*s = &v
}
