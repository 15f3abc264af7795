package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unimaxdigital/agency-web/internal/config"
	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/handler"
	"github.com/unimaxdigital/agency-web/internal/mailer"
	"github.com/unimaxdigital/agency-web/internal/oauth"
	"github.com/unimaxdigital/agency-web/internal/repository"
	"github.com/unimaxdigital/agency-web/internal/service"
)

// Auth POSTs allowed per client IP: a burst, then a steady rate per minute.
const (
	authAttemptsPerMinute = 10
	authAttemptBurst      = 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := repository.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	if err != nil {
		slog.Error("failed to open database", "kind", repository.Kind(cfg.DatabaseURL), "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "kind", repository.Kind(cfg.DatabaseURL))

	var mail domain.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		slog.Info("mail via SMTP", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		mail = mailer.NewLog(logger)
		slog.Warn("SMTP_HOST not set; emails are written to the log")
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenIssuer(db.Users(), hasher, mail, cfg.BaseURL)
	limiter := service.NewAttemptLimiter(authAttemptsPerMinute, authAttemptBurst)
	defer limiter.Close()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.New(handler.Deps{
			Auth:           service.NewAuthService(db.Users(), hasher, tokens),
			Sessions:       service.NewSessionIssuer(cfg.JWTSecret, cfg.SessionTTL),
			Tokens:         tokens,
			Contact:        service.NewContactService(mail, cfg.ContactInbox),
			Providers:      providers(cfg),
			Limiter:        limiter,
			CookieSecure:   cfg.CookieSecure,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// providers enables the external issuers that have credentials configured.
func providers(cfg *config.Config) oauth.Registry {
	reg := oauth.Registry{}
	callback := func(name string) string { return cfg.BaseURL + "/api/auth/callback/" + name }
	if cfg.GitHubEnabled() {
		reg.Add(oauth.GitHub(cfg.GitHubClientID, cfg.GitHubSecret, callback(oauth.GitHubName)))
	}
	if cfg.GoogleEnabled() {
		reg.Add(oauth.Google(cfg.GoogleClientID, cfg.GoogleSecret, callback(oauth.GoogleName)))
	}
	if len(reg) > 0 {
		slog.Info("external sign-in enabled", "providers", reg.Names())
	}
	return reg
}
