package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/repository/sqlite"
	"github.com/unimaxdigital/agency-web/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

type sentMail struct {
	To, Subject, HTML string
}

// recordingMailer captures messages and optionally fails delivery.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("expected a mail to be sent")
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	db     *sqlite.DB
	users  domain.UserRepository
	hasher *service.BcryptHasher
	mailer *recordingMailer
	tokens *service.TokenIssuer
	auth   *service.AuthService
}

func newTestEnv(t *testing.T, opts ...service.TokenOption) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:     db,
		users:  db.Users(),
		hasher: service.NewBcryptHasher(4), // fast tests
		mailer: &recordingMailer{},
	}
	env.tokens = service.NewTokenIssuer(env.users, env.hasher, env.mailer, "https://unimax.test", opts...)
	env.auth = service.NewAuthService(env.users, env.hasher, env.tokens)
	return env
}

func validInput(email string) service.RegistrationInput {
	return service.RegistrationInput{
		Email:           email,
		Password:        "secret",
		ConfirmPassword: "secret",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		AgreeToTerms:    true,
	}
}
