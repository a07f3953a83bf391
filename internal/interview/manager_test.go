package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage/memory"
)

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (s *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func strPtr(s string) *string { return &s }

type fixture struct {
	store       *memory.Store
	mailer      *stubMailer
	manager     *Manager
	candidateID int64
	clock       time.Time
}

func newFixture(t *testing.T, email string) *fixture {
	t.Helper()

	store := memory.New()
	profile := &models.ParsedResume{Name: strPtr("Jane Doe")}
	if email != "" {
		profile.Email = strPtr(email)
	}
	res, err := store.UpsertCandidate(context.Background(), profile)
	if err != nil {
		t.Fatalf("upsert candidate: %v", err)
	}

	karachi, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	f := &fixture{
		store:       store,
		mailer:      &stubMailer{},
		candidateID: res.CandidateID,
		clock:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.manager = NewManager(store, f.mailer, Settings{
		LinkBaseURL:     "https://app.example.com/",
		DisplayLocation: karachi,
		CompanyName:     "Edvenity",
	}, zap.NewNop())
	f.manager.now = func() time.Time { return f.clock }
	f.manager.newToken = func() string { return "3f2c9a4e-0000-4000-8000-000000000001" }
	return f
}

func TestScheduleGeneratesTokenAndMails(t *testing.T) {
	f := newFixture(t, "jane@example.com")
	ctx := context.Background()

	scheduled, err := f.manager.Schedule(ctx, models.CandidateJobRequest{CandidateID: f.candidateID, JobID: 4})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	if scheduled.InterviewLink != "https://app.example.com/vapi/3f2c9a4e-0000-4000-8000-000000000001" {
		t.Fatalf("unexpected link %q", scheduled.InterviewLink)
	}
	if want := f.clock.Add(TokenWindow); !scheduled.Expiry.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, scheduled.Expiry)
	}
	if !scheduled.EmailSent {
		t.Fatalf("expected email to be sent")
	}

	candidate, err := f.store.GetCandidate(ctx, f.candidateID)
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if !candidate.Access.Valid || candidate.Access.Interviewed {
		t.Fatalf("expected live access, got %+v", candidate.Access)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(f.mailer.sent))
	}
	msg := f.mailer.sent[0]
	if msg.to != "jane@example.com" {
		t.Fatalf("unexpected recipient %q", msg.to)
	}
	if msg.subject != "Congratulations! You're Shortlisted for Edvenity" {
		t.Fatalf("unexpected subject %q", msg.subject)
	}
	// 09:30 UTC is 14:30 in Karachi.
	if !strings.Contains(msg.body, "2025-03-10 02:30 PM PKT") {
		t.Fatalf("expected expiry in display timezone, got body %q", msg.body)
	}
	if !strings.Contains(msg.body, scheduled.InterviewLink) {
		t.Fatalf("expected link in body")
	}
}

func TestScheduleMailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, "jane@example.com")
	f.mailer.err = errors.New("smtp down")

	scheduled, err := f.manager.Schedule(context.Background(), models.CandidateJobRequest{CandidateID: f.candidateID})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if scheduled.EmailSent {
		t.Fatalf("expected EmailSent to be false")
	}
	if scheduled.InterviewLink == "" {
		t.Fatalf("expected a link even when mail fails")
	}
}

func TestScheduleWithoutEmail(t *testing.T) {
	f := newFixture(t, "")

	scheduled, err := f.manager.Schedule(context.Background(), models.CandidateJobRequest{CandidateID: f.candidateID})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if scheduled.EmailSent || len(f.mailer.sent) != 0 {
		t.Fatalf("expected no mail for candidate without email")
	}
}

func TestScheduleUnknownCandidate(t *testing.T) {
	f := newFixture(t, "jane@example.com")

	_, err := f.manager.Schedule(context.Background(), models.CandidateJobRequest{CandidateID: 999})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateReplacesPreviousToken(t *testing.T) {
	f := newFixture(t, "jane@example.com")
	ctx := context.Background()

	tokens := []string{"first", "second"}
	f.manager.newToken = func() string {
		next := tokens[0]
		tokens = tokens[1:]
		return next
	}

	if _, err := f.manager.Generate(ctx, f.candidateID); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, err := f.manager.Generate(ctx, f.candidateID); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if _, err := f.manager.Validate(ctx, "first"); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected old token to be rejected, got %v", err)
	}
	if _, err := f.manager.Validate(ctx, "second"); err != nil {
		t.Fatalf("expected new token to validate, got %v", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		valid   bool
	}{
		{name: "fresh", elapsed: time.Minute, valid: true},
		{name: "exactly at expiry", elapsed: TokenWindow, valid: true},
		{name: "just past expiry", elapsed: TokenWindow + time.Nanosecond, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "jane@example.com")
			ctx := context.Background()

			access, err := f.manager.Generate(ctx, f.candidateID)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}

			f.clock = f.clock.Add(tt.elapsed)
			candidate, err := f.manager.Validate(ctx, *access.Token)

			if tt.valid {
				if err != nil {
					t.Fatalf("expected token to validate, got %v", err)
				}
				if candidate.ID != f.candidateID {
					t.Fatalf("expected candidate %d, got %d", f.candidateID, candidate.ID)
				}
				return
			}

			if !errors.Is(err, models.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
			stored, err := f.store.GetCandidate(ctx, f.candidateID)
			if err != nil {
				t.Fatalf("get candidate: %v", err)
			}
			if stored.Access.Valid {
				t.Fatalf("expected expired token to be invalidated")
			}
		})
	}
}

func TestValidateUnknownToken(t *testing.T) {
	f := newFixture(t, "jane@example.com")

	for _, token := range []string{"", "   ", "nope"} {
		if _, err := f.manager.Validate(context.Background(), token); !errors.Is(err, models.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestCompleteConsumesToken(t *testing.T) {
	f := newFixture(t, "jane@example.com")
	ctx := context.Background()

	access, err := f.manager.Generate(ctx, f.candidateID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	report := models.InterviewReport{Transcript: "Hello", Summary: "Went well", SuccessEvaluation: 8}
	interview, err := f.manager.Complete(ctx, f.candidateID, report)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if interview.ID == 0 || interview.CandidateID != f.candidateID || interview.SuccessEvaluation != 8 {
		t.Fatalf("unexpected interview %+v", interview)
	}

	if _, err := f.manager.Validate(ctx, *access.Token); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}

	if _, err := f.manager.Complete(ctx, f.candidateID, report); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected second completion to fail, got %v", err)
	}

	stored, err := f.store.GetCandidate(ctx, f.candidateID)
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if !stored.Access.Interviewed || stored.Access.Valid || stored.Access.Token != nil {
		t.Fatalf("unexpected access after completion %+v", stored.Access)
	}
}

func TestEndInterview(t *testing.T) {
	f := newFixture(t, "jane@example.com")
	ctx := context.Background()

	access, err := f.manager.Generate(ctx, f.candidateID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	candidate, err := f.manager.End(ctx, f.candidateID)
	if err != nil {
		t.Fatalf("End returned error: %v", err)
	}
	if !candidate.Access.Interviewed || candidate.Access.Token != nil {
		t.Fatalf("unexpected access after end %+v", candidate.Access)
	}
	if _, err := f.manager.Validate(ctx, *access.Token); !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("expected ended token to be rejected, got %v", err)
	}

	if _, err := f.manager.End(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown candidate, got %v", err)
	}
}
