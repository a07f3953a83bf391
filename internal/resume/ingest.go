package resume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/models"
	"github.com/edvenity/recruiter/internal/storage"
)

type TextExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type profileExtractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

type Upload struct {
	Filename string
	Data     []byte
}

type UploadResult struct {
	CandidateID int64  `json:"candidate_id"`
	Message     string `json:"message"`
	Created     bool   `json:"created"`
	Degraded    bool   `json:"degraded"`
}

// Ingestor runs upload_and_parse: text extraction, profile extraction and upsert.
type Ingestor struct {
	text      TextExtractor
	extractor profileExtractor
	store     storage.CandidateStore
	uploadDir string
	logger    *zap.Logger
}

// NewIngestor creates an Ingestor. An empty uploadDir disables archiving of uploads.
func NewIngestor(text TextExtractor, extractor profileExtractor, store storage.CandidateStore, uploadDir string, log *zap.Logger) *Ingestor {
	return &Ingestor{
		text:      text,
		extractor: extractor,
		store:     store,
		uploadDir: strings.TrimSpace(uploadDir),
		logger:    logger.WithFields(log),
	}
}

func (i *Ingestor) UploadAndParse(ctx context.Context, upload Upload) (*UploadResult, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("uploaded file is empty: %w", models.ErrInvalidInput)
	}

	filename := safeName(upload.Filename)
	log := i.logger.With(zap.String("filename", filename))

	if err := i.archive(filename, upload.Data); err != nil {
		return nil, err
	}

	text, err := i.text.ExtractText(filename, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("extracting resume text: %w: %w", models.ErrInvalidInput, err)
	}

	extraction, err := i.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{}
	switch extraction.Kind {
	case ExtractionOK:
	case ExtractionDegraded:
		result.Degraded = true
		log.Warn("storing empty profile", zap.String("reason", extraction.Reason))
	default:
		return nil, fmt.Errorf("unknown extraction kind %s", extraction.Kind)
	}

	upsert, err := i.store.UpsertCandidate(ctx, extraction.Profile)
	if err != nil {
		return nil, fmt.Errorf("storing candidate profile: %w", err)
	}

	result.CandidateID = upsert.CandidateID
	result.Created = upsert.Created
	result.Message = uploadMessage(upsert, extraction.Profile)

	log.Info("resume processed",
		logger.Candidate(upsert.CandidateID),
		zap.Bool("created", upsert.Created),
		zap.Bool("degraded", result.Degraded),
	)

	return result, nil
}

func (i *Ingestor) archive(filename string, data []byte) error {
	if i.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(i.uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(i.uploadDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("archiving upload: %w", err)
	}
	return nil
}

func uploadMessage(upsert storage.UpsertResult, profile *models.ParsedResume) string {
	switch upsert.MatchedBy {
	case storage.MatchedByEmail:
		return fmt.Sprintf("Resume for email '%s' updated successfully", strings.TrimSpace(*profile.Email))
	case storage.MatchedByPhone:
		return fmt.Sprintf("Resume for phone '%s' updated successfully", strings.TrimSpace(*profile.PhoneNumber))
	default:
		return "New candidate inserted successfully"
	}
}

func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "resume"
	}
	return name
}
