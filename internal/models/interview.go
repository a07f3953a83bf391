package models

import "time"

// Interview is an append-only record of a completed interview.
type Interview struct {
	ID                int64      `json:"interview_id"`
	CandidateID       int64      `json:"candidate_id"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	DurationSeconds   *float64   `json:"duration"`
	Transcript        string     `json:"transcript"`
	Summary           string     `json:"summary"`
	RecordingURL      string     `json:"recording_url"`
	VideoRecordingURL string     `json:"video_recording_url"`
	SuccessEvaluation int        `json:"success_evaluation"`
	CreatedAt         time.Time  `json:"created_at"`
}

// InterviewReport carries the fields reported when an interview finishes.
type InterviewReport struct {
	StartTime         *time.Time
	EndTime           *time.Time
	DurationSeconds   *float64
	Transcript        string
	Summary           string
	RecordingURL      string
	VideoRecordingURL string
	SuccessEvaluation int
}

func (r InterviewReport) Record(candidateID int64, createdAt time.Time) *Interview {
	return &Interview{
		CandidateID:       candidateID,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		DurationSeconds:   r.DurationSeconds,
		Transcript:        r.Transcript,
		Summary:           r.Summary,
		RecordingURL:      r.RecordingURL,
		VideoRecordingURL: r.VideoRecordingURL,
		SuccessEvaluation: r.SuccessEvaluation,
		CreatedAt:         createdAt,
	}
}
