package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
)

type skillFilter struct {
	skill    string
	disabled bool
	reason   string
}

// NewSkill keeps candidates listing the skill, compared case-insensitively.
// An empty skill disables the step.
func NewSkill(skill string) Filter {
	f := &skillFilter{skill: strings.TrimSpace(skill)}
	if f.skill == "" {
		f.Disable("no skill requested")
	}
	return f
}

func (f *skillFilter) Name() string { return "skill" }

func (f *skillFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *skillFilter) IsEnabled() bool { return !f.disabled }

func (f *skillFilter) Apply(_ context.Context, deps Deps, c Candidates) (Candidates, Step, error) {
	initial := c.Len()
	kept, dropped := c.Keep(func(candidate *models.Candidate) bool {
		return candidate.HasSkill(f.skill)
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding candidates without skill",
			zap.String("skill", f.skill),
			zap.Int64s("excluded_candidates", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *skillFilter) Status() Status {
	details := map[string]string{}
	if f.skill != "" {
		details["skill"] = f.skill
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
