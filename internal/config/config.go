// Package config holds the process configuration built once at start-up.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	EnvPrefix = "RECRUITER"
)

type Config struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Database  *DatabaseConfig  `mapstructure:"database"`
	Storage   string           `mapstructure:"storage"`
	AI        *AIConfig        `mapstructure:"ai"`
	Mail      *MailConfig      `mapstructure:"mail"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Uploads   *UploadsConfig   `mapstructure:"uploads"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout"`
	WriteTimeout   time.Duration `mapstructure:"write-timeout"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type MailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from-name"`
}

type InterviewConfig struct {
	LinkBaseURL     string `mapstructure:"link-base-url"`
	DisplayTimezone string `mapstructure:"display-timezone"`
	CompanyName     string `mapstructure:"company-name"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers every default so that environment overrides resolve
// for keys that never appear in a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.read-timeout", 30*time.Second)
	v.SetDefault("server.write-timeout", 120*time.Second)
	v.SetDefault("server.allowed-origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max-open-conns", 10)
	v.SetDefault("database.max-idle-conns", 5)
	v.SetDefault("database.conn-max-lifetime", 30*time.Minute)

	v.SetDefault("storage", StoragePostgres)

	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	v.SetDefault("ai.openai.api-key", "")
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.model", "gpt-4o")
	v.SetDefault("ai.openai.base-url", "")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.password-file", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.from-name", "")

	v.SetDefault("interview.link-base-url", "http://localhost:3000")
	v.SetDefault("interview.display-timezone", "Asia/Karachi")
	v.SetDefault("interview.company-name", "Edvenity")

	v.SetDefault("uploads.dir", "uploads")
}

// BindEnv makes RECRUITER_SECTION_KEY override section.key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server == nil || c.AI == nil || c.Mail == nil || c.Interview == nil || c.Uploads == nil || c.Database == nil {
		return errors.New("config sections are missing; defaults were not applied")
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			return errors.New("database.url is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q (expected %s or %s)", c.Storage, StoragePostgres, StorageMemory)
	}

	switch strings.ToLower(strings.TrimSpace(c.AI.Provider)) {
	case ProviderGemini:
		if c.AI.Gemini == nil || strings.TrimSpace(c.AI.Gemini.Model) == "" {
			return errors.New("ai.gemini.model is required")
		}
	case ProviderOpenAI:
		if c.AI.OpenAI == nil || strings.TrimSpace(c.AI.OpenAI.Model) == "" {
			return errors.New("ai.openai.model is required")
		}
	default:
		return fmt.Errorf("unknown ai provider %q (expected %s or %s)", c.AI.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.Mail.Enabled && strings.TrimSpace(c.Mail.From) == "" {
		return errors.New("mail.from is required when mail is enabled")
	}

	if strings.TrimSpace(c.Interview.LinkBaseURL) == "" {
		return errors.New("interview.link-base-url is required")
	}
	if _, err := time.LoadLocation(c.Interview.DisplayTimezone); err != nil {
		return fmt.Errorf("interview.display-timezone: %w", err)
	}

	return nil
}
