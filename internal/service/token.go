package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

// TokenLifetime is how long a verification or reset link stays valid.
const TokenLifetime = time.Hour

// TokenIssuer creates, mails and consumes single-use verification and
// password reset tokens.
type TokenIssuer struct {
	users   domain.UserRepository
	hasher  PasswordHasher
	mailer  domain.Mailer
	baseURL string
	now     func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock overrides the clock used for expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) { t.now = now }
}

// NewTokenIssuer creates a TokenIssuer. Links are built relative to baseURL.
func NewTokenIssuer(users domain.UserRepository, hasher PasswordHasher, mailer domain.Mailer, baseURL string, opts ...TokenOption) *TokenIssuer {
	t := &TokenIssuer{
		users:   users,
		hasher:  hasher,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue stores a fresh token for purpose on the user and mails the link. The
// token is returned even when delivery fails so callers can log it.
func (t *TokenIssuer) Issue(ctx context.Context, user *domain.User, purpose domain.TokenPurpose) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("%w: unknown token purpose %q", domain.ErrInvalidInput, purpose)
	}

	token, err := t.hasher.Hash(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	if err := t.users.SetToken(ctx, user.ID, purpose, token, t.now().Add(TokenLifetime)); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	subject, body := tokenEmail(purpose, t.Link(purpose, token))
	if err := t.mailer.Send(ctx, user.Email, subject, body); err != nil {
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return token, fmt.Errorf("send %s email: %w", strings.ToLower(string(purpose)), err)
	}
	return token, nil
}

// Link returns the absolute URL a recipient follows to redeem token.
func (t *TokenIssuer) Link(purpose domain.TokenPurpose, token string) string {
	path := "/verify"
	if purpose == domain.PurposeReset {
		path = "/reset"
	}
	return t.baseURL + path + "?token=" + url.QueryEscape(token)
}

// Consume redeems token. VERIFY marks the owner verified and clears the token.
// RESET only checks the token; ResetPassword performs the mutation.
func (t *TokenIssuer) Consume(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.User, error) {
	if token == "" || !purpose.Valid() {
		return nil, domain.ErrNotFound
	}

	user, err := t.users.GetByToken(ctx, purpose, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}

	expiry := user.VerifyTokenExpiry
	if purpose == domain.PurposeReset {
		expiry = user.ForgotPasswordTokenExpiry
	}
	if expiry == nil || t.now().After(*expiry) {
		return nil, domain.ErrTokenExpired
	}

	if purpose == domain.PurposeVerify {
		if err := t.users.MarkVerified(ctx, user.ID, token); err != nil {
			return nil, err
		}
		user.IsVerified = true
		user.VerifyToken = ""
		user.VerifyTokenExpiry = nil
	}
	return user, nil
}

// ResetPassword validates the new password, redeems a RESET token and stores
// the new hash.
func (t *TokenIssuer) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if err := validatePassword(password, confirm); err != nil {
		return err
	}

	user, err := t.Consume(ctx, token, domain.PurposeReset)
	if err != nil {
		return err
	}

	hash, err := t.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := t.users.ResetPassword(ctx, user.ID, token, hash); err != nil {
		return err
	}
	slog.Info("password reset", "user_id", user.ID)
	return nil
}

// RequestPasswordReset mails a reset link when email belongs to a credentials
// account. Unknown and external-only addresses succeed silently.
func (t *TokenIssuer) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Invalid("email", "Email is required")
	}

	user, err := t.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Debug("password reset for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !user.HasPassword() {
		slog.Debug("password reset for external account", "user_id", user.ID)
		return nil
	}

	_, err = t.Issue(ctx, user, domain.PurposeReset)
	return err
}

func tokenEmail(purpose domain.TokenPurpose, link string) (subject, body string) {
	action, subject := "verify your email", "Verify your email"
	if purpose == domain.PurposeReset {
		action, subject = "reset your password", "Reset your password"
	}
	body = fmt.Sprintf(`<p>Click the link below to %s:</p>
<p><a href="%s">%s</a></p>
<p>This link will expire in 1 hour.</p>`, action, html.EscapeString(link), subject)
	return subject, body
}
