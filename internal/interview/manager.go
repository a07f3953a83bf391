// Package interview manages single-use, time-boxed interview access tokens.
//
// A candidate moves through NoToken -> Valid -> {Expired, Consumed}. Only
// Generate (through scheduling) moves a candidate back to Valid.
package interview

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/mail"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

// TokenWindow is how long a freshly generated token stays usable.
const TokenWindow = 30 * time.Minute

const displayLayout = "2006-01-02 03:04 PM MST"

type Settings struct {
	// LinkBaseURL is the frontend origin; links look like <base>/vapi/<token>.
	LinkBaseURL string
	// DisplayLocation only affects how the expiry is shown in mails.
	DisplayLocation *time.Location
	CompanyName     string
}

// Scheduled is the outcome of scheduling an interview.
type Scheduled struct {
	CandidateID   int64     `json:"candidate_id"`
	InterviewLink string    `json:"interview_link"`
	Expiry        time.Time `json:"expiry"`
	EmailSent     bool      `json:"email_sent"`
}

type Manager struct {
	store    storage.TokenStore
	mailer   mail.Sender
	settings Settings
	logger   *zap.Logger

	now      func() time.Time
	newToken func() string
}

func NewManager(store storage.TokenStore, mailer mail.Sender, settings Settings, log *zap.Logger) *Manager {
	if settings.DisplayLocation == nil {
		settings.DisplayLocation = time.UTC
	}
	if mailer == nil {
		mailer = mail.LogSender{Logger: log}
	}
	return &Manager{
		store:    store,
		mailer:   mailer,
		settings: settings,
		logger:   logger.WithFields(log),
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Generate issues a fresh token, replacing any previous one.
func (m *Manager) Generate(ctx context.Context, candidateID int64) (models.InterviewAccess, error) {
	token := m.newToken()
	expiry := m.now().UTC().Add(TokenWindow)

	access := models.InterviewAccess{
		Token:       &token,
		Expiry:      &expiry,
		Valid:       true,
		Interviewed: false,
	}
	if err := m.store.SetInterviewAccess(ctx, candidateID, access); err != nil {
		return models.InterviewAccess{}, fmt.Errorf("storing interview token: %w", err)
	}

	m.logger.Info("interview token generated", logger.Candidate(candidateID), zap.Time("expiry", expiry))
	return access, nil
}

// Link builds the interview URL for a token.
func (m *Manager) Link(token string) string {
	return strings.TrimRight(m.settings.LinkBaseURL, "/") + "/vapi/" + url.PathEscape(token)
}

// Schedule generates a token for the candidate and mails the link. Mail
// failures are logged and reported through Scheduled.EmailSent.
func (m *Manager) Schedule(ctx context.Context, req models.CandidateJobRequest) (*Scheduled, error) {
	candidate, err := m.store.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}

	access, err := m.Generate(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}

	scheduled := &Scheduled{
		CandidateID:   candidate.ID,
		InterviewLink: m.Link(*access.Token),
		Expiry:        *access.Expiry,
	}
	scheduled.EmailSent = m.notify(ctx, candidate, scheduled)

	return scheduled, nil
}

func (m *Manager) notify(ctx context.Context, candidate *models.Candidate, scheduled *Scheduled) bool {
	log := m.logger.With(logger.Candidate(candidate.ID))

	email := candidate.Email()
	if email == "" {
		log.Warn("candidate has no email, interview invitation not sent")
		return false
	}

	subject := fmt.Sprintf("Congratulations! You're Shortlisted for %s", m.settings.CompanyName)
	if err := m.mailer.Send(ctx, email, subject, m.invitationBody(candidate, scheduled)); err != nil {
		log.Warn("sending interview invitation", zap.Error(err))
		return false
	}
	return true
}

func (m *Manager) invitationBody(candidate *models.Candidate, scheduled *Scheduled) string {
	name := candidate.Name
	if name == "" {
		name = "Candidate"
	}
	expiry := scheduled.Expiry.In(m.settings.DisplayLocation).Format(displayLayout)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Congratulations! You have been shortlisted for an interview with %s.\n\n", m.settings.CompanyName)
	fmt.Fprintf(&b, "Start your interview here:\n%s\n\n", scheduled.InterviewLink)
	fmt.Fprintf(&b, "The link is valid for %d minutes and expires at %s.\n\n", int(TokenWindow.Minutes()), expiry)
	fmt.Fprintf(&b, "Best regards,\n%s Hiring Team\n", m.settings.CompanyName)
	return b.String()
}

// Validate returns the candidate owning a live token. Discovering an expired
// token invalidates it before the call is rejected.
func (m *Manager) Validate(ctx context.Context, token string) (*models.Candidate, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty: %w", models.ErrInvalidToken)
	}

	candidate, err := m.store.FindCandidateByToken(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("token is unknown or already used: %w", models.ErrInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up interview token: %w", err)
	}

	if candidate.Access.Expired(m.now()) {
		if err := m.store.InvalidateToken(ctx, candidate.ID); err != nil {
			return nil, fmt.Errorf("invalidating expired token: %w", err)
		}
		m.logger.Info("interview token expired", logger.Candidate(candidate.ID))
		return nil, fmt.Errorf("interview link has expired: %w", models.ErrInvalidToken)
	}

	return candidate, nil
}

// Complete records the finished interview and consumes the candidate's token atomically.
func (m *Manager) Complete(ctx context.Context, candidateID int64, report models.InterviewReport) (*models.Interview, error) {
	interview, err := m.store.ConsumeToken(ctx, candidateID, report.Record(candidateID, m.now().UTC()))
	if err != nil {
		return nil, err
	}

	m.logger.Info("interview completed",
		logger.Candidate(candidateID),
		zap.Int64("interview_id", interview.ID),
		zap.Int("success_evaluation", interview.SuccessEvaluation),
	)
	return interview, nil
}

// End closes the candidate's interview access without recording an interview.
func (m *Manager) End(ctx context.Context, candidateID int64) (*models.Candidate, error) {
	candidate, err := m.store.EndInterview(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	m.logger.Info("interview ended administratively", logger.Candidate(candidateID))
	return candidate, nil
}
