package models

import (
	"strings"
	"time"
)

// ParsedResume is the normalized profile produced by resume extraction.
// Absent values are explicit nulls when encoded.
type ParsedResume struct {
	Name        *string      `json:"name"`
	Email       *string      `json:"email"`
	PhoneNumber *string      `json:"phone_number"`
	Skills      *string      `json:"skills"`
	Education   *Education   `json:"education"`
	Projects    []Project    `json:"projects"`
	Experiences []Experience `json:"experiences"`
}

// SkillList splits the comma-joined skills string into trimmed, non-empty names.
func (p *ParsedResume) SkillList() []string {
	if p == nil || p.Skills == nil {
		return nil
	}
	return SplitSkills(*p.Skills)
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Experience dates are free text as written in the resume.
type Experience struct {
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// Contact is the deduplication identity of a candidate. A candidate owns at most one contact.
type Contact struct {
	Email       string `json:"email_address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// InterviewAccess is the interview token state embedded in a candidate.
type InterviewAccess struct {
	Token       *string    `json:"interview_token"`
	Expiry      *time.Time `json:"token_expiry"`
	Valid       bool       `json:"is_valid"`
	Interviewed bool       `json:"is_interviewed"`
}

// Expired reports whether now is strictly past the expiry. A missing expiry counts as expired.
func (a InterviewAccess) Expired(now time.Time) bool {
	if a.Expiry == nil {
		return true
	}
	return now.After(*a.Expiry)
}

// Live reports whether the token can still be used to open an interview.
func (a InterviewAccess) Live(now time.Time) bool {
	return a.Token != nil && a.Valid && !a.Interviewed && !a.Expired(now)
}

type Candidate struct {
	ID          int64           `json:"candidate_id"`
	Name        string          `json:"name"`
	Contact     *Contact        `json:"contact"`
	Skills      []string        `json:"skills"`
	Projects    []Project       `json:"projects"`
	Experiences []Experience    `json:"experiences"`
	Educations  []Education     `json:"education"`
	Access      InterviewAccess `json:"interview_access"`
	Interviews  []Interview     `json:"interviews,omitempty"`
}

// Email returns the contact email or an empty string.
func (c *Candidate) Email() string {
	if c == nil || c.Contact == nil {
		return ""
	}
	return c.Contact.Email
}

// HasSkill compares skill names case-insensitively.
func (c *Candidate) HasSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range c.Skills {
		if strings.EqualFold(strings.TrimSpace(s), skill) {
			return true
		}
	}
	return false
}

// Profile rebuilds the normalized profile used for scoring: skills are
// comma-joined and only the first education record is kept.
func (c *Candidate) Profile() *ParsedResume {
	if c == nil {
		return nil
	}

	profile := &ParsedResume{
		Name:        stringPtr(c.Name),
		Projects:    c.Projects,
		Experiences: c.Experiences,
	}
	if c.Contact != nil {
		profile.Email = stringPtr(c.Contact.Email)
		profile.PhoneNumber = stringPtr(c.Contact.PhoneNumber)
	}
	if len(c.Skills) > 0 {
		profile.Skills = stringPtr(strings.Join(c.Skills, ", "))
	}
	if len(c.Educations) > 0 {
		edu := c.Educations[0]
		profile.Education = &edu
	}

	return profile
}

// SplitSkills splits a comma-joined skill string.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
