package models

import (
	"testing"
	"time"
)

func TestInterviewAccessExpired(t *testing.T) {
	expiry := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	token := "t"

	tests := []struct {
		name    string
		access  InterviewAccess
		now     time.Time
		expired bool
		live    bool
	}{
		{name: "before expiry", access: InterviewAccess{Token: &token, Expiry: &expiry, Valid: true}, now: expiry.Add(-time.Second), live: true},
		{name: "at expiry", access: InterviewAccess{Token: &token, Expiry: &expiry, Valid: true}, now: expiry, live: true},
		{name: "after expiry", access: InterviewAccess{Token: &token, Expiry: &expiry, Valid: true}, now: expiry.Add(time.Nanosecond), expired: true},
		{name: "no expiry", access: InterviewAccess{Token: &token, Valid: true}, now: expiry, expired: true},
		{name: "invalidated", access: InterviewAccess{Token: &token, Expiry: &expiry}, now: expiry},
		{name: "interviewed", access: InterviewAccess{Token: &token, Expiry: &expiry, Valid: true, Interviewed: true}, now: expiry},
		{name: "no token", access: InterviewAccess{Expiry: &expiry, Valid: true}, now: expiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.access.Expired(tt.now); got != tt.expired {
				t.Fatalf("Expired() = %v, want %v", got, tt.expired)
			}
			if got := tt.access.Live(tt.now); got != tt.live {
				t.Fatalf("Live() = %v, want %v", got, tt.live)
			}
		})
	}
}

func TestCandidateProfile(t *testing.T) {
	c := &Candidate{
		ID:      3,
		Name:    "Ali",
		Contact: &Contact{Email: "ali@example.com"},
		Skills:  []string{"Python", "SQL"},
		Educations: []Education{
			{Degree: "BSc", Institution: "NUST"},
			{Degree: "MSc", Institution: "LUMS"},
		},
	}

	profile := c.Profile()
	if profile.Skills == nil || *profile.Skills != "Python, SQL" {
		t.Fatalf("unexpected skills %v", profile.Skills)
	}
	if profile.Education == nil || profile.Education.Degree != "BSc" {
		t.Fatalf("expected first education, got %+v", profile.Education)
	}
	if profile.PhoneNumber != nil {
		t.Fatalf("expected nil phone, got %q", *profile.PhoneNumber)
	}
	if got := profile.SkillList(); len(got) != 2 || got[1] != "SQL" {
		t.Fatalf("unexpected skill list %v", got)
	}

	var missing *Candidate
	if missing.Profile() != nil || missing.Email() != "" {
		t.Fatalf("nil candidate should have no profile or email")
	}
}

func TestHasSkill(t *testing.T) {
	c := &Candidate{Skills: []string{" Python ", "Docker"}}

	for skill, want := range map[string]bool{"python": true, "PYTHON ": true, "Py": false, "Pythonic": false, "": false} {
		if got := c.HasSkill(skill); got != want {
			t.Fatalf("HasSkill(%q) = %v, want %v", skill, got, want)
		}
	}
}

func TestSplitSkills(t *testing.T) {
	got := SplitSkills(" Go, ,SQL ,  ")
	if len(got) != 2 || got[0] != "Go" || got[1] != "SQL" {
		t.Fatalf("unexpected skills %q", got)
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 31, 3, 15)
	if page.TotalPages != 3 || page.Items == nil || page.Page != 3 {
		t.Fatalf("unexpected page %+v", page)
	}

	empty := NewPage([]string{}, 0, 1, 15)
	if empty.TotalPages != 0 {
		t.Fatalf("expected zero pages, got %d", empty.TotalPages)
	}
}

func TestJobDetails(t *testing.T) {
	job := &JobListing{Title: "QA", DatePosted: time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC), IsOpened: true}
	if d := job.Details(); d.DatePosted != "2025-01-02" || d.Title != "QA" || !d.IsOpened {
		t.Fatalf("unexpected details %+v", d)
	}
}
