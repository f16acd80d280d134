package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken         string
	DatabaseURL           string
	AdminTelegramID       int64
	FallbackClassifierURL string // empty disables the LLM fallback entirely
	FallbackClassifierKey string
	LogLevel              string
	Environment           string
	CronSpecWeeklyDigest  string
	DigestChatID          int64 // 0 disables the weekly digest push
	DebugTrace            bool  // verbose per-question trace logging
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

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	// The fallback classifier is optional: without a URL the pipeline simply
	// answers unknown intents with a clarification.
	cfg.FallbackClassifierURL = os.Getenv("FALLBACK_CLASSIFIER_URL")
	cfg.FallbackClassifierKey = os.Getenv("FALLBACK_CLASSIFIER_API_KEY")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecWeeklyDigest = os.Getenv("CRON_SPEC_WEEKLY_DIGEST")
	if cfg.CronSpecWeeklyDigest == "" {
		cfg.CronSpecWeeklyDigest = "0 9 * * 1" // Default: 9:00 AM every Monday
	}

	if digestStr := os.Getenv("DIGEST_CHAT_ID"); digestStr != "" {
		cfg.DigestChatID, err = strconv.ParseInt(digestStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DIGEST_CHAT_ID: %w", err)
		}
	}

	cfg.DebugTrace = strings.EqualFold(os.Getenv("DEBUG_TRACE"), "true")

	return cfg, nil
}
