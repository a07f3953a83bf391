package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage/memory"
)

type stubText struct {
	text string
	err  error
}

func (s stubText) ExtractText(string, []byte) (string, error) {
	return s.text, s.err
}

func newIngestor(t *testing.T, store *memory.Store, responses ...string) *Ingestor {
	t.Helper()
	extractor := newExtractor(&stubCompleter{responses: responses}, zap.NewNop())
	return NewIngestor(stubText{text: "resume text"}, extractor, store, "", zap.NewNop())
}

func upload() Upload {
	return Upload{Filename: "cv.pdf", Data: []byte("%PDF-1.4")}
}

func TestUploadAndParseDeduplicatesByEmail(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ingestor := newIngestor(t, store,
		`{"name": "Jane", "email": "jane@example.com", "skills": "Go"}`,
		`{"name": "Jane Smith", "email": "jane@example.com", "skills": "Go, SQL"}`,
	)

	first, err := ingestor.UploadAndParse(ctx, upload())
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if !first.Created || first.Message != "New candidate inserted successfully" {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := ingestor.UploadAndParse(ctx, upload())
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.Created || second.CandidateID != first.CandidateID {
		t.Fatalf("expected update of candidate %d, got %+v", first.CandidateID, second)
	}
	if second.Message != "Resume for email 'jane@example.com' updated successfully" {
		t.Fatalf("unexpected message: %q", second.Message)
	}

	candidates, _ := store.ListCandidates(ctx)
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "Jane Smith" || len(candidates[0].Skills) != 2 {
		t.Fatalf("expected replaced profile, got %+v", candidates[0])
	}
}

func TestUploadAndParseWithoutContactAlwaysInserts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ingestor := newIngestor(t, store, `{"name": "Anonymous", "skills": "Go"}`)

	for i := 0; i < 3; i++ {
		res, err := ingestor.UploadAndParse(ctx, upload())
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		if !res.Created {
			t.Fatalf("upload %d: expected insert", i)
		}
	}

	candidates, _ := store.ListCandidates(ctx)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
}

func TestUploadAndParseDegradedStillStoresCandidate(t *testing.T) {
	store := memory.New()
	ingestor := newIngestor(t, store, "not json at all")

	res, err := ingestor.UploadAndParse(context.Background(), upload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Degraded || !res.Created {
		t.Fatalf("unexpected result: %+v", res)
	}

	c, err := store.GetCandidate(context.Background(), res.CandidateID)
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if c.Name != "" || c.Contact != nil || len(c.Skills) != 0 {
		t.Fatalf("expected empty profile, got %+v", c)
	}
}

func TestUploadAndParseRejectsBadInput(t *testing.T) {
	store := memory.New()
	ingestor := newIngestor(t, store)

	if _, err := ingestor.UploadAndParse(context.Background(), Upload{Filename: "cv.pdf"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty upload, got %v", err)
	}

	ingestor.text = stubText{err: errors.New("encrypted pdf")}
	if _, err := ingestor.UploadAndParse(context.Background(), upload()); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unreadable file, got %v", err)
	}
}

func TestUploadAndParseArchivesUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	extractor := newExtractor(&stubCompleter{responses: []string{`{"name": "Jane"}`}}, zap.NewNop())
	ingestor := NewIngestor(stubText{text: "resume"}, extractor, memory.New(), dir, zap.NewNop())

	if _, err := ingestor.UploadAndParse(context.Background(), Upload{Filename: "../../etc/cv.pdf", Data: []byte("data")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cv.pdf"))
	if err != nil {
		t.Fatalf("expected archived file: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("unexpected archived content: %q", data)
	}
}

func TestDocconvExtractorPlainText(t *testing.T) {
	text, err := DocconvExtractor{}.ExtractText("cv.txt", []byte("Jane Doe\nGo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nGo" {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := (DocconvExtractor{}).ExtractText("cv.xyz", []byte("?")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
