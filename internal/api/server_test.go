package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/filtering"
	"github.com/edvenity/recruiter/internal/interview"
	"github.com/edvenity/recruiter/internal/jobs"
	"github.com/edvenity/recruiter/internal/matching"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/pipeline"
	"github.com/edvenity/recruiter/internal/prompts"
	"github.com/edvenity/recruiter/internal/resume"
	"github.com/edvenity/recruiter/internal/storage/memory"
)

// routingCompleter answers matching prompts with match and everything else with profile.
type routingCompleter struct {
	match   string
	profile string
}

func (c *routingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "match_score") {
		return c.match, nil
	}
	return c.profile, nil
}

func (c *routingCompleter) Model() string { return "stub-model" }

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

type testEnv struct {
	store     *memory.Store
	completer *routingCompleter
	handler   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	completer := &routingCompleter{
		match:   `{"match_score": 8.5, "explanation": "Strong Python background."}`,
		profile: `{"name": "Jane Doe", "email": "jane@example.com", "phone_number": "+1 555 0100", "skills": ["Python", "SQL"],
			"experiences": [{"job_title": "Data Analyst", "company_name": "Acme", "start_date": "2021", "end_date": "2024"}]}`,
	}
	log := zap.NewNop()
	library := prompts.NewLibrary(store, log)

	manager := interview.NewManager(store, nopMailer{}, interview.Settings{LinkBaseURL: "https://app.example.com", CompanyName: "Edvenity"}, log)
	scorer := matching.NewScorer(completer, library, store, store, log, 0)

	svc := Services{
		Ingestor:   resume.NewIngestor(resume.DocconvExtractor{}, resume.NewExtractor(completer, library, log, 0), store, "", log),
		Pipeline:   pipeline.New(store, store, store, scorer, manager, log),
		Interviews: manager,
		Jobs:       jobs.NewService(store),
		Describer:  jobs.NewDescriber(completer, library, log),
		Candidates: store,
		Dashboard:  filtering.NewDashboard(store, log),
		Prompts:    prompts.NewService(store),
	}

	return &testEnv{
		store:     store,
		completer: completer,
		handler:   NewServer(svc, Options{AllowedOrigins: []string{"https://app.example.com"}}, log).Handler(),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestUploadApplyAndInterviewFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "jane.txt", "Jane Doe, Python developer")
	expectStatus(t, rec, http.StatusOK)
	uploaded := decode[resume.UploadResult](t, rec)
	if !uploaded.Created || uploaded.Message != "New candidate inserted successfully" {
		t.Fatalf("unexpected upload result %+v", uploaded)
	}

	rec = env.upload(t, "jane-v2.txt", "Jane Doe, senior Python developer")
	expectStatus(t, rec, http.StatusOK)
	second := decode[resume.UploadResult](t, rec)
	if second.CandidateID != uploaded.CandidateID || second.Message != "Resume for email 'jane@example.com' updated successfully" {
		t.Fatalf("expected update of same candidate, got %+v", second)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/jobs", models.JobListing{Title: "Data Engineer", Description: "Python", IsOpened: true})
	expectStatus(t, rec, http.StatusCreated)
	job := decode[models.JobListing](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/apply", map[string]int64{"candidate_id": uploaded.CandidateID})
	expectStatus(t, rec, http.StatusOK)
	result := decode[models.ApplicationResult](t, rec)
	if result.Status != models.StatusInterviewScheduled || result.Score != 8.5 || result.InterviewLink == nil {
		t.Fatalf("unexpected application result %+v", result)
	}

	token := strings.TrimPrefix(*result.InterviewLink, "https://app.example.com/vapi/")
	rec = env.do(t, http.MethodGet, "/api/v1/interview/validate/"+token, nil)
	expectStatus(t, rec, http.StatusOK)
	valid := decode[models.Candidate](t, rec)
	if valid.ID != uploaded.CandidateID || valid.Email() != "jane@example.com" || !valid.Access.Valid {
		t.Fatalf("unexpected validation %+v", valid)
	}
	if len(valid.Skills) != 2 || valid.Skills[0] != "Python" || valid.Skills[1] != "SQL" {
		t.Fatalf("expected skills in validated profile, got %v", valid.Skills)
	}
	if len(valid.Experiences) != 1 || valid.Experiences[0].CompanyName != "Acme" {
		t.Fatalf("expected experiences in validated profile, got %+v", valid.Experiences)
	}

	report := map[string]any{
		"message": map[string]any{
			"type":            "end-of-call-report",
			"startedAt":       "2025-03-10T09:00:00Z",
			"endedAt":         "2025-03-10T09:12:00Z",
			"durationSeconds": 720.5,
			"transcript":      "AI: Hello",
			"summary":         "Solid candidate",
			"recordingUrl":    "https://cdn.example.com/a.wav",
			"artifact":        map[string]any{"videoRecordingUrl": "https://cdn.example.com/a.mp4"},
			"analysis":        map[string]any{"successEvaluation": "8"},
			"assistant":       map[string]any{"variableValues": map[string]any{"candidateId": itoa(uploaded.CandidateID)}},
		},
	}
	rec = env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", report)
	expectStatus(t, rec, http.StatusOK)
	stored := decode[models.Interview](t, rec)
	if stored.SuccessEvaluation != 8 || stored.VideoRecordingURL != "https://cdn.example.com/a.mp4" || stored.StartTime == nil {
		t.Fatalf("unexpected interview %+v", stored)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/interview/validate/"+token, nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", report)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, "/api/v1/candidates/"+itoa(uploaded.CandidateID)+"/applications", nil)
	expectStatus(t, rec, http.StatusOK)
	apps := decode[[]models.ApplicationSummary](t, rec)
	if len(apps) != 1 || apps[0].JobTitle != "Data Engineer" {
		t.Fatalf("unexpected candidate applications %+v", apps)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/admin/dashboard?interviewed=true", nil)
	expectStatus(t, rec, http.StatusOK)
	view := decode[filtering.DashboardView](t, rec)
	if len(view.Candidates) != 1 || len(view.Candidates[0].Interviews) != 1 {
		t.Fatalf("unexpected dashboard %+v", view)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/admin/dashboard?interviewed=false", nil)
	expectStatus(t, rec, http.StatusOK)
	if view := decode[filtering.DashboardView](t, rec); len(view.Candidates) != 0 {
		t.Fatalf("expected no candidates left to interview, got %+v", view.Candidates)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/admin/dashboard?interviewed=maybe", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestApplyErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/jobs/77/apply", map[string]int64{"candidate_id": 1})
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/v1/jobs/abc/apply", map[string]int64{"candidate_id": 1})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestApplyUpstreamFailureIsNotQualified(t *testing.T) {
	env := newTestEnv(t)
	env.completer.match = "I cannot answer that."

	rec := env.upload(t, "jane.txt", "Jane")
	expectStatus(t, rec, http.StatusOK)
	uploaded := decode[resume.UploadResult](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/jobs", models.JobListing{Title: "QA"})
	expectStatus(t, rec, http.StatusCreated)
	job := decode[models.JobListing](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/jobs/"+itoa(job.ID)+"/apply", map[string]int64{"candidate_id": uploaded.CandidateID})
	expectStatus(t, rec, http.StatusOK)
	result := decode[models.ApplicationResult](t, rec)
	if result.Status != models.StatusNotQualified || result.Score != 0 || result.InterviewLink != nil {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "empty.txt", "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.upload(t, "resume.xyz", "data")
	expectStatus(t, rec, http.StatusBadRequest)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", strings.NewReader("plain"))
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestJobsPaginationAndCRUD(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 16; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/jobs", models.JobListing{Title: "Job " + itoa(int64(i))})
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/jobs?page=2", nil)
	expectStatus(t, rec, http.StatusOK)
	page := decode[models.Page[models.JobListing]](t, rec)
	if page.Total != 16 || page.PageSize != 15 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/jobs?page=0", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPut, "/api/v1/jobs/1", models.JobListing{Title: "Renamed"})
	expectStatus(t, rec, http.StatusOK)
	if job := decode[models.JobListing](t, rec); job.Title != "Renamed" || job.ID != 1 {
		t.Fatalf("unexpected updated job %+v", job)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/jobs/1", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, "/api/v1/jobs/1", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestDescribeJob(t *testing.T) {
	env := newTestEnv(t)
	env.completer.profile = `{"overview": "Great role.", "key_responsibilities": ["Ship"], "required_skills": ["Go"]}`

	rec := env.do(t, http.MethodPost, "/api/v1/jobs/describe", describeRequest{Title: "Go Developer", Keywords: []string{"Go"}})
	expectStatus(t, rec, http.StatusOK)
	draft := decode[jobs.Draft](t, rec)
	if draft.Description != "Great role. Key Responsibilities: • Ship Required Skills: • Go" {
		t.Fatalf("unexpected draft %+v", draft)
	}

	env.completer.profile = "no json here"
	rec = env.do(t, http.MethodPost, "/api/v1/jobs/describe", describeRequest{Title: "Go Developer"})
	expectStatus(t, rec, http.StatusBadGateway)
}

func TestEndOfCallPayloads(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", map[string]any{"message": map[string]any{"type": "status-update"}})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", map[string]any{"message": map[string]any{"type": "end-of-call-report"}})
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", map[string]any{
		"message": map[string]any{"assistant": map[string]any{"variableValues": map[string]any{"candidateId": 404}}},
	})
	expectStatus(t, rec, http.StatusNotFound)

	tests := []struct {
		name        string
		message     map[string]any
		wantSummary string
		wantEval    int
	}{
		{
			name:        "analysis summary and boolean evaluation",
			message:     map[string]any{"summary": "top level", "analysis": map[string]any{"summary": "Strong fit", "successEvaluation": true}},
			wantSummary: "Strong fit",
			wantEval:    1,
		},
		{
			name:        "falls back to top level summary",
			message:     map[string]any{"summary": "top level", "analysis": map[string]any{"successEvaluation": 6.8}},
			wantSummary: "top level",
			wantEval:    6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.upload(t, "jane.txt", "Jane")
			uploaded := decode[resume.UploadResult](t, rec)

			rec = env.do(t, http.MethodPost, "/api/v1/interview/schedule", models.CandidateJobRequest{CandidateID: uploaded.CandidateID})
			expectStatus(t, rec, http.StatusOK)

			tt.message["type"] = "end-of-call-report"
			tt.message["assistant"] = map[string]any{"variableValues": map[string]any{"candidateId": uploaded.CandidateID}}
			rec = env.do(t, http.MethodPost, "/api/v1/interview/end-of-call", map[string]any{"message": tt.message})
			expectStatus(t, rec, http.StatusOK)

			stored := decode[models.Interview](t, rec)
			if stored.Summary != tt.wantSummary || stored.SuccessEvaluation != tt.wantEval {
				t.Fatalf("expected summary %q and evaluation %d, got %q and %d", tt.wantSummary, tt.wantEval, stored.Summary, stored.SuccessEvaluation)
			}
		})
	}
}

func TestSuccessEvaluation(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{in: float64(7), want: 7},
		{in: 7.5, want: 7},
		{in: -2.9, want: -2},
		{in: "9", want: 9},
		{in: "9.0", want: 9},
		{in: "8.7", want: 8},
		{in: "Inf", want: 0},
		{in: "true", want: 0},
		{in: nil, want: 0},
		{in: true, want: 1},
		{in: false, want: 0},
	}
	for _, tt := range tests {
		if got := successEvaluation(tt.in); got != tt.want {
			t.Fatalf("successEvaluation(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestScheduleAndEndInterview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/interview/schedule", models.CandidateJobRequest{CandidateID: 5})
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.upload(t, "jane.txt", "Jane")
	uploaded := decode[resume.UploadResult](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/interview/schedule", models.CandidateJobRequest{CandidateID: uploaded.CandidateID})
	expectStatus(t, rec, http.StatusOK)
	scheduled := decode[interview.Scheduled](t, rec)
	if !strings.HasPrefix(scheduled.InterviewLink, "https://app.example.com/vapi/") {
		t.Fatalf("unexpected link %q", scheduled.InterviewLink)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/interview/end/"+itoa(uploaded.CandidateID), nil)
	expectStatus(t, rec, http.StatusOK)

	token := strings.TrimPrefix(scheduled.InterviewLink, "https://app.example.com/vapi/")
	rec = env.do(t, http.MethodGet, "/api/v1/interview/validate/"+token, nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestPromptsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/prompts", models.Prompt{
		Name:             "GREETING",
		Content:          "Hello {{NAME}}",
		RequiredElements: []string{"{{NAME}}"},
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = env.do(t, http.MethodPut, "/api/v1/prompts/GREETING", models.Prompt{Content: "Hi", RequiredElements: []string{"{{NAME}}"}})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, "/api/v1/prompts/GREETING", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodDelete, "/api/v1/prompts/GREETING", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, "/api/v1/prompts/GREETING", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusNoContent)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for foreign origin, got %q", got)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
