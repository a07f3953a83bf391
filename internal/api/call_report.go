package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/edvenity/recruiter/internal/models"
)

const endOfCallReport = "end-of-call-report"

// callEnvelope is the webhook body posted by the voice interview agent.
type callEnvelope struct {
	Message callMessage `json:"message"`
}

type callMessage struct {
	Type            string     `json:"type"`
	StartedAt       *time.Time `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	DurationSeconds *float64   `json:"durationSeconds"`
	Transcript      string     `json:"transcript"`
	Summary         string     `json:"summary"`
	RecordingURL    string     `json:"recordingUrl"`

	Artifact struct {
		VideoRecordingURL string `json:"videoRecordingUrl"`
	} `json:"artifact"`

	Analysis struct {
		Summary           string `json:"summary"`
		SuccessEvaluation any    `json:"successEvaluation"`
	} `json:"analysis"`

	Assistant struct {
		VariableValues struct {
			CandidateID any `json:"candidateId"`
		} `json:"variableValues"`
	} `json:"assistant"`
}

// Reports without a type are treated as end-of-call reports.
func (m callMessage) isEndOfCall() bool {
	return m.Type == "" || m.Type == endOfCallReport
}

// candidateID accepts a JSON number or a numeric string. A missing id reads as not found.
func (m callMessage) candidateID() (int64, error) {
	switch v := m.Assistant.VariableValues.CandidateID.(type) {
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return int64(v), nil
		}
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && id > 0 {
			return id, nil
		}
	case nil:
		return 0, fmt.Errorf("candidate id missing from call report: %w", models.ErrNotFound)
	}
	return 0, fmt.Errorf("candidate id %v is not a positive integer: %w", m.Assistant.VariableValues.CandidateID, models.ErrNotFound)
}

// summary prefers the analysis summary and falls back to the top-level one.
func (m callMessage) summary() string {
	if s := strings.TrimSpace(m.Analysis.Summary); s != "" {
		return s
	}
	return m.Summary
}

func (m callMessage) report() models.InterviewReport {
	return models.InterviewReport{
		StartTime:         m.StartedAt,
		EndTime:           m.EndedAt,
		DurationSeconds:   m.DurationSeconds,
		Transcript:        m.Transcript,
		Summary:           m.summary(),
		RecordingURL:      m.RecordingURL,
		VideoRecordingURL: m.Artifact.VideoRecordingURL,
		SuccessEvaluation: successEvaluation(m.Analysis.SuccessEvaluation),
	}
}

// successEvaluation maps a pass/fail boolean to 1 or 0 and truncates numbers and
// numeric strings toward zero. Anything else is 0.
func successEvaluation(v any) int {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
	case float64:
		return truncate(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return truncate(f)
		}
	}
	return 0
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(math.Trunc(f))
}
