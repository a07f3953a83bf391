package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// DashboardParams selects which filters the admin dashboard applies.
// A nil Interviewed leaves the interviewed state unfiltered.
type DashboardParams struct {
	Skill                 string
	Interviewed           *bool
	NonInterviewedExpired bool
	PendingInterviews     bool
}

// DashboardView is the filtered candidate listing and the filters that produced it.
type DashboardView struct {
	Candidates []*models.Candidate `json:"candidates"`
	Filters    []Status            `json:"filters"`
}

type Dashboard struct {
	store  storage.CandidateStore
	logger *zap.Logger
}

func NewDashboard(store storage.CandidateStore, log *zap.Logger) *Dashboard {
	return &Dashboard{store: store, logger: logger.WithFields(log)}
}

// Steps builds the filter chain for params. Enabled filters combine with AND.
func Steps(p DashboardParams) []Filter {
	return []Filter{
		NewSkill(p.Skill),
		NewInterviewed(p.Interviewed),
		NewNonInterviewedExpired(p.NonInterviewedExpired),
		NewPendingInterviews(p.PendingInterviews),
	}
}

func (d *Dashboard) View(ctx context.Context, p DashboardParams) (*DashboardView, error) {
	all, err := d.store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	steps := Steps(p)
	left, err := Run(ctx, Deps{Logger: d.logger}, steps, Candidates(all))
	if err != nil {
		return nil, err
	}

	result := []*models.Candidate(left)
	if result == nil {
		result = []*models.Candidate{}
	}
	return &DashboardView{Candidates: result, Filters: Describe(steps)}, nil
}
