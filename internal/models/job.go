package models

import "time"

type ApplicationStatus string

const (
	StatusPending            ApplicationStatus = "Pending"
	StatusInterviewScheduled ApplicationStatus = "Interview Scheduled"
	StatusNotQualified       ApplicationStatus = "Not Qualified"
)

type JobListing struct {
	ID          int64     `json:"job_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	DatePosted  time.Time `json:"date_posted"`
	IsOpened    bool      `json:"is_opened"`
}

// JobDetails is the job view embedded in the matching prompt.
type JobDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	DatePosted  string `json:"date_posted"`
	IsOpened    bool   `json:"is_opened"`
}

func (j *JobListing) Details() JobDetails {
	return JobDetails{
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Salary:      j.Salary,
		DatePosted:  j.DatePosted.Format(time.DateOnly),
		IsOpened:    j.IsOpened,
	}
}

type JobApplication struct {
	ID          int64             `json:"application_id"`
	JobID       int64             `json:"job_id"`
	CandidateID int64             `json:"candidate_id"`
	DateApplied time.Time         `json:"date_applied"`
	Status      ApplicationStatus `json:"status"`
	MatchScore  *float64          `json:"match_score"`
}

// ApplicationSummary is an application joined with its job title.
type ApplicationSummary struct {
	JobApplication
	JobTitle string `json:"job_title"`
}

// CandidateJobRequest is the parameter shared by interview scheduling and job applications.
type CandidateJobRequest struct {
	CandidateID int64 `json:"candidate_id"`
	JobID       int64 `json:"job_id,omitempty"`
}

// MatchResult is the scorer's verdict. Score is always within [0, 10].
type MatchResult struct {
	Score       float64 `json:"match_score"`
	Explanation string  `json:"explanation"`
}

type ApplicationResult struct {
	ApplicationID int64             `json:"application_id"`
	JobID         int64             `json:"job_id"`
	CandidateID   int64             `json:"candidate_id"`
	Status        ApplicationStatus `json:"status"`
	Score         float64           `json:"match_score"`
	Explanation   string            `json:"explanation"`
	InterviewLink *string           `json:"interview_link"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage computes the page count for total items split by size.
func NewPage[T any](items []T, total, page, size int) Page[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: page, PageSize: size, TotalPages: pages}
}
