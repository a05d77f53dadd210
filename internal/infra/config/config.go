package config

import (
	"fmt"
	"os"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LLMProviderOpenRouter = "openrouter"
	LLMProviderDeepSeek   = "deepseek"
	LLMProviderGemini     = "gemini"
	LLMProviderNone       = "none"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken         string
	TelegramWebhookURL    string // Empty means long polling
	TelegramWebhookListen string
	StorageDriver         string
	DatabaseURL           string
	LLM                   LLMConfig
	SnoozeDelay           time.Duration
	NewReminderOffset     time.Duration // How far ahead /add schedules a reminder
	CronSpecDueCheck      string
	HTTPAddr              string // Health endpoint
	LogLevel              string
	Environment           string
}

// LLMConfig configures the generative text provider.
type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

// Enabled reports whether a provider should be constructed at all.
func (c LLMConfig) Enabled() bool {
	return c.Provider != LLMProviderNone && c.APIKey != ""
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	cfg.TelegramWebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	cfg.TelegramWebhookListen = getEnv("TELEGRAM_WEBHOOK_LISTEN", ":8443")

	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres))
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cfg.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", LLMProviderOpenRouter))
	cfg.LLM.APIKey = os.Getenv("LLM_API_KEY")
	switch cfg.LLM.Provider {
	case LLMProviderOpenRouter:
		cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1")
		cfg.LLM.Model = getEnv("LLM_MODEL", "openai/gpt-3.5-turbo")
	case LLMProviderDeepSeek:
		cfg.LLM.Model = getEnv("LLM_MODEL", "deepseek-chat")
	case LLMProviderGemini:
		cfg.LLM.Model = getEnv("LLM_MODEL", "gemini-2.0-flash")
	case LLMProviderNone:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	if cfg.LLM.Timeout, err = getDuration("LLM_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SnoozeDelay, err = getDuration("SNOOZE_DELAY", 20*time.Minute); err != nil {
		return nil, err
	}
	if cfg.NewReminderOffset, err = getDuration("NEW_REMINDER_OFFSET", time.Hour); err != nil {
		return nil, err
	}

	cfg.CronSpecDueCheck = getEnv("CRON_SPEC_DUE_CHECK", "* * * * *") // Default: every minute
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
