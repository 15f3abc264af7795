// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLen = 32

// Config holds all runtime settings.
type Config struct {
	Port           string
	DatabaseURL    string
	MongoDatabase  string
	JWTSecret      string
	SessionTTL     time.Duration
	BcryptCost     int
	CookieSecure   bool
	BaseURL        string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	MailFrom       string
	ContactInbox   string
	GitHubClientID string
	GitHubSecret   string
	GoogleClientID string
	GoogleSecret   string
	AllowedOrigins []string
	LogLevel       slog.Level
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "sqlite:agency.db"),
		MongoDatabase:  envOrDefault("MONGODB_DATABASE", "agency"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CookieSecure:   os.Getenv("COOKIE_SECURE") != "false",
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:       envOrDefault("MAIL_FROM", "Unimax Digital <noreply@unimax.digital>"),
		GitHubClientID: os.Getenv("GITHUB_CLIENT_ID"),
		GitHubSecret:   os.Getenv("GITHUB_CLIENT_SECRET"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
	cfg.BaseURL = strings.TrimRight(envOrDefault("BASE_URL", "http://localhost:"+cfg.Port), "/")
	cfg.ContactInbox = envOrDefault("CONTACT_INBOX", "hello@unimax.digital")

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLen)
	}

	var err error
	if cfg.BcryptCost, err = intInRange("BCRYPT_COST", 10, 4, 14); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intInRange("SMTP_PORT", 587, 1, 65535); err != nil {
		return nil, err
	}

	cfg.SessionTTL = 24 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", v)
		}
		cfg.SessionTTL = ttl
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c *Config) GitHubEnabled() bool { return c.GitHubClientID != "" && c.GitHubSecret != "" }

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool { return c.GoogleClientID != "" && c.GoogleSecret != "" }

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func intInRange(key string, defaultVal, lo, hi int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, lo, hi, n)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
