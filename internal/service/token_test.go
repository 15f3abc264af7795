package service_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newClockedEnv(t *testing.T) (*testEnv, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	return newTestEnv(t, service.WithClock(clock.Now)), clock
}

func registerUser(t *testing.T, env *testEnv, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	reg, err := env.auth.Register(ctx, validInput(email))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := env.users.GetByID(ctx, reg.Identity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return user
}

// tokenFromMail extracts the token query parameter from the mailed link.
func tokenFromMail(t *testing.T, html string) string {
	t.Helper()
	start := strings.Index(html, `href="`)
	if start < 0 {
		t.Fatalf("no link in mail: %s", html)
	}
	rest := html[start+len(`href="`):]
	link := strings.ReplaceAll(rest[:strings.Index(rest, `"`)], "&amp;", "&")
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("token")
}

func TestTokenIssuer_VerifyWithinWindow(t *testing.T) {
	env, clock := newClockedEnv(t)
	ctx := context.Background()
	user := registerUser(t, env, "win@example.com")

	token, err := env.tokens.Issue(ctx, user, domain.PurposeVerify)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !env.hasher.Verify(user.ID, token) {
		t.Fatal("token should be a bcrypt digest of the user id")
	}
	if got := tokenFromMail(t, env.mailer.last(t).HTML); got != token {
		t.Fatalf("mailed token %q does not match issued %q", got, token)
	}

	clock.now = clock.now.Add(59 * time.Minute)
	verified, err := env.tokens.Consume(ctx, token, domain.PurposeVerify)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !verified.IsVerified {
		t.Fatal("expected returned user to be verified")
	}

	stored, err := env.users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.IsVerified || stored.VerifyToken != "" || stored.VerifyTokenExpiry != nil {
		t.Fatalf("expected verified user with cleared token, got %+v", stored)
	}

	if _, err := env.tokens.Consume(ctx, token, domain.PurposeVerify); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second consume: expected ErrNotFound, got %v", err)
	}
}

func TestTokenIssuer_VerifyExpired(t *testing.T) {
	env, clock := newClockedEnv(t)
	ctx := context.Background()
	user := registerUser(t, env, "late@example.com")

	token, err := env.tokens.Issue(ctx, user, domain.PurposeVerify)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.now = clock.now.Add(time.Hour + time.Second)
	if _, err := env.tokens.Consume(ctx, token, domain.PurposeVerify); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	stored, _ := env.users.GetByID(ctx, user.ID)
	if stored.IsVerified {
		t.Fatal("expired token must not verify the user")
	}
}

func TestTokenIssuer_ConsumeUnknown(t *testing.T) {
	env, _ := newClockedEnv(t)
	ctx := context.Background()

	if _, err := env.tokens.Consume(ctx, "nope", domain.PurposeVerify); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.tokens.Consume(ctx, "", domain.PurposeReset); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty token: expected ErrNotFound, got %v", err)
	}
}

func TestTokenIssuer_ResetPassword(t *testing.T) {
	env, clock := newClockedEnv(t)
	ctx := context.Background()
	registerUser(t, env, "reset@example.com")

	if err := env.tokens.RequestPasswordReset(ctx, "Reset@Example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	mail := env.mailer.last(t)
	if !strings.Contains(mail.HTML, "https://unimax.test/reset?token=") {
		t.Fatalf("expected reset link, got %s", mail.HTML)
	}
	token := tokenFromMail(t, mail.HTML)

	// Showing the form does not consume the token.
	if _, err := env.tokens.Consume(ctx, token, domain.PurposeReset); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	err := env.tokens.ResetPassword(ctx, token, "new-secret", "other")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Passwords do not match" {
		t.Fatalf("expected mismatch, got %v", err)
	}

	clock.now = clock.now.Add(30 * time.Minute)
	if err := env.tokens.ResetPassword(ctx, token, "new-secret", "new-secret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := env.auth.Login(ctx, "reset@example.com", "new-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := env.auth.Login(ctx, "reset@example.com", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should fail, got %v", err)
	}
	if err := env.tokens.ResetPassword(ctx, token, "again", "again"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("replay: expected ErrNotFound, got %v", err)
	}
}

func TestTokenIssuer_ResetExpired(t *testing.T) {
	env, clock := newClockedEnv(t)
	ctx := context.Background()
	user := registerUser(t, env, "slow@example.com")

	token, err := env.tokens.Issue(ctx, user, domain.PurposeReset)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clock.now = clock.now.Add(2 * time.Hour)
	if err := env.tokens.ResetPassword(ctx, token, "pw", "pw"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_RequestPasswordReset_Silent(t *testing.T) {
	env, _ := newClockedEnv(t)
	ctx := context.Background()

	if err := env.tokens.RequestPasswordReset(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("unknown email should succeed silently, got %v", err)
	}
	if _, err := env.auth.LoginExternal(ctx, domain.ExternalIdentity{Provider: "google", Email: "g@example.com"}); err != nil {
		t.Fatalf("LoginExternal: %v", err)
	}
	if err := env.tokens.RequestPasswordReset(ctx, "g@example.com"); err != nil {
		t.Fatalf("external account should succeed silently, got %v", err)
	}
	if len(env.mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(env.mailer.sent))
	}
	if err := env.tokens.RequestPasswordReset(ctx, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank email: expected ErrInvalidInput, got %v", err)
	}
}

func TestTokenIssuer_MailFailureIsTransport(t *testing.T) {
	env, _ := newClockedEnv(t)
	ctx := context.Background()
	user := registerUser(t, env, "down@example.com")

	env.mailer.fail = true
	token, err := env.tokens.Issue(ctx, user, domain.PurposeVerify)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if token == "" {
		t.Fatal("token should still be returned")
	}
}

func TestTokenIssuer_Link(t *testing.T) {
	issuer := service.NewTokenIssuer(nil, nil, nil, "https://unimax.test/")
	got := issuer.Link(domain.PurposeVerify, "$2a$04$a/b+c")
	want := "https://unimax.test/verify?token=%242a%2404%24a%2Fb%2Bc"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
