package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/ai"
	"github.com/edvenity/recruiter/internal/ai/gemini"
	"github.com/edvenity/recruiter/internal/ai/openai"
	"github.com/edvenity/recruiter/internal/api"
	"github.com/edvenity/recruiter/internal/config"
	"github.com/edvenity/recruiter/internal/filtering"
	"github.com/edvenity/recruiter/internal/interview"
	"github.com/edvenity/recruiter/internal/jobs"
	"github.com/edvenity/recruiter/internal/mail"
	"github.com/edvenity/recruiter/internal/matching"
	"github.com/edvenity/recruiter/internal/pipeline"
	"github.com/edvenity/recruiter/internal/prompts"
	"github.com/edvenity/recruiter/internal/resume"
	"github.com/edvenity/recruiter/internal/secrets"
	"github.com/edvenity/recruiter/internal/storage"
	"github.com/edvenity/recruiter/internal/storage/memory"
	"github.com/edvenity/recruiter/internal/storage/postgres"
)

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), nil
	default:
		return postgres.Open(ctx, postgres.Options{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
	}
}

func newCompleter(ctx context.Context, cfg *config.AIConfig) (ai.Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ai.ProviderOpenAI:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or RECRUITER_AI_OPENAI_API_KEY)", err)
		}
		return openai.NewClient(apiKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	default:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or RECRUITER_AI_GEMINI_API_KEY)", err)
		}
		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	}
}

func newMailer(cfg *config.MailConfig, logger *zap.Logger) (mail.Sender, error) {
	if !cfg.Enabled {
		return mail.LogSender{Logger: logger}, nil
	}

	password, err := secrets.Load(secrets.Source{
		Name:     "smtp password",
		Value:    cfg.Password,
		File:     cfg.PasswordFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	return mail.NewSMTPSender(mail.Settings{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: password,
		From:     cfg.From,
		FromName: cfg.FromName,
	})
}

// application is the fully wired set of services behind every command.
type application struct {
	store      storage.Store
	completer  ai.Completer
	interviews *interview.Manager
	pipeline   *pipeline.Orchestrator
	services   api.Services
}

func (a *application) Close() error {
	return a.store.Close()
}

// newInterviewManager needs only storage and mail, so administrative
// commands can run without AI credentials.
func newInterviewManager(cfg *config.Config, store storage.TokenStore, logger *zap.Logger) (*interview.Manager, error) {
	mailer, err := newMailer(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("creating mailer: %w", err)
	}

	location, err := time.LoadLocation(cfg.Interview.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading display timezone: %w", err)
	}

	return interview.NewManager(store, mailer, interview.Settings{
		LinkBaseURL:     cfg.Interview.LinkBaseURL,
		DisplayLocation: location,
		CompanyName:     cfg.Interview.CompanyName,
	}, logger), nil
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	completer, err := newCompleter(ctx, cfg.AI)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating ai client: %w", err)
	}

	manager, err := newInterviewManager(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	aiLogger := logger.With(zap.String("ai_provider", cfg.AI.Provider))
	library := prompts.NewLibrary(store, logger)
	scorer := matching.NewScorer(completer, library, store, store, aiLogger, cfg.AI.MaxLogLength)
	orchestrator := pipeline.New(store, store, store, scorer, manager, logger)

	return &application{
		store:      store,
		completer:  completer,
		interviews: manager,
		pipeline:   orchestrator,
		services: api.Services{
			Ingestor: resume.NewIngestor(
				resume.DocconvExtractor{},
				resume.NewExtractor(completer, library, aiLogger, cfg.AI.MaxLogLength),
				store,
				cfg.Uploads.Dir,
				logger,
			),
			Pipeline:   orchestrator,
			Interviews: manager,
			Jobs:       jobs.NewService(store),
			Describer:  jobs.NewDescriber(completer, library, aiLogger),
			Candidates: store,
			Dashboard:  filtering.NewDashboard(store, logger),
			Prompts:    prompts.NewService(store),
		},
	}, nil
}
