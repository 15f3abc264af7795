package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var keys = []string{
	"PORT", "DATABASE_URL", "MONGODB_DATABASE", "JWT_SECRET", "SESSION_TTL", "BCRYPT_COST",
	"COOKIE_SECURE", "BASE_URL", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
	"MAIL_FROM", "CONTACT_INBOX", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "ALLOWED_ORIGINS", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite:agency.db", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.GitHubEnabled())
	assert.False(t, cfg.GoogleEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9000")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BASE_URL", "https://unimax.digital/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, https://b.test,,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "https://unimax.digital", cfg.BaseURL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.GitHubEnabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET environment variable is required"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 32 characters"},
		{"cost too high", map[string]string{"JWT_SECRET": testSecret, "BCRYPT_COST": "20"}, "BCRYPT_COST must be between 4 and 14"},
		{"cost not a number", map[string]string{"JWT_SECRET": testSecret, "BCRYPT_COST": "ten"}, "invalid BCRYPT_COST"},
		{"bad ttl", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "forever"}, "invalid SESSION_TTL"},
		{"negative ttl", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "-1h"}, "invalid SESSION_TTL"},
		{"bad smtp port", map[string]string{"JWT_SECRET": testSecret, "SMTP_PORT": "0"}, "SMTP_PORT must be between"},
		{"bad log level", map[string]string{"JWT_SECRET": testSecret, "LOG_LEVEL": "loud"}, "invalid LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
