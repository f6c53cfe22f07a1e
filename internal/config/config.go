package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr    string
	DatabaseURL   string
	TelegramToken string // empty disables daily Telegram reports
	ReportTime    string // HH:MM, local time
	LogLevel      string
	LogFile       string // empty logs to stdout only
	CookieSecure  bool
}

// Load reads configuration from the environment with sane defaults. A .env
// file in the working directory is applied first if present.
func Load() (Config, error) {
	// Missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:   getenv("DATABASE_URL", "chorepoints.db"),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReportTime:    getenv("REPORT_TIME", "08:00"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       strings.TrimSpace(os.Getenv("LOG_FILE")),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}

	if !strings.Contains(cfg.ReportTime, ":") {
		return cfg, fmt.Errorf("REPORT_TIME %q must be HH:MM", cfg.ReportTime)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
