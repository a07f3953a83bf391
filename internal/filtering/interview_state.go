package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
)

// Interview state filter names.
const (
	Interviewed           = "interviewed"
	NonInterviewedExpired = "non_interviewed_expired"
	PendingInterviews     = "pending_interviews"
)

type stateFilter struct {
	name     string
	keep     func(models.InterviewAccess) bool
	disabled bool
	reason   string
}

func newStateFilter(name string, enabled bool, keep func(models.InterviewAccess) bool) Filter {
	f := &stateFilter{name: name, keep: keep}
	if !enabled {
		f.Disable("not requested")
	}
	return f
}

// NewInterviewed keeps candidates whose interviewed flag equals *want. A nil want disables it.
func NewInterviewed(want *bool) Filter {
	return newStateFilter(Interviewed, want != nil, func(a models.InterviewAccess) bool {
		return a.Interviewed == *want
	})
}

// NewNonInterviewedExpired keeps candidates without a usable token who were never interviewed.
func NewNonInterviewedExpired(enabled bool) Filter {
	return newStateFilter(NonInterviewedExpired, enabled, func(a models.InterviewAccess) bool {
		return !a.Interviewed && !a.Valid
	})
}

// NewPendingInterviews keeps candidates still allowed to interview.
func NewPendingInterviews(enabled bool) Filter {
	return newStateFilter(PendingInterviews, enabled, func(a models.InterviewAccess) bool {
		return !a.Interviewed && a.Valid
	})
}

func (f *stateFilter) Name() string { return f.name }

func (f *stateFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *stateFilter) IsEnabled() bool { return !f.disabled }

func (f *stateFilter) Apply(_ context.Context, deps Deps, c Candidates) (Candidates, Step, error) {
	initial := c.Len()
	kept, dropped := c.Keep(func(candidate *models.Candidate) bool {
		return f.keep(candidate.Access)
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding candidates by interview state",
			zap.String("state", f.name),
			zap.Int64s("excluded_candidates", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *stateFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
