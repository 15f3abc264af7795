package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

func TestAuthService_Register_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, validInput("new@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Identity.ID == "" {
		t.Fatal("expected generated id")
	}
	if reg.Identity.Name != "Ada Lovelace" {
		t.Fatalf("expected name Ada Lovelace, got %q", reg.Identity.Name)
	}

	user, err := env.users.GetByID(ctx, reg.Identity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Role != domain.RoleUser || user.Provider != domain.ProviderCredentials {
		t.Fatalf("unexpected defaults role=%q provider=%q", user.Role, user.Provider)
	}
	if user.AccountType != domain.AccountTypeIndividual {
		t.Fatalf("expected default account type, got %q", user.AccountType)
	}
	if user.PasswordHash == "secret" || !env.hasher.Verify("secret", user.PasswordHash) {
		t.Fatal("expected stored bcrypt digest of the password")
	}
	if len(env.mailer.sent) != 0 {
		t.Fatal("plain Register must not send mail")
	}
}

func TestAuthService_Register_NameFallbacks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := validInput("grace@example.com")
	in.FirstName, in.LastName = "", ""
	reg, err := env.auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Identity.Name != "grace" {
		t.Fatalf("expected email local part, got %q", reg.Identity.Name)
	}

	in = validInput("legacy@example.com")
	in.FirstName, in.LastName, in.Username = "", "", "hopper"
	reg, err = env.auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Identity.Name != "hopper" {
		t.Fatalf("expected username as name, got %q", reg.Identity.Name)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Register(ctx, validInput("dup@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := env.auth.Register(ctx, validInput("DUP@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	var count int
	if err := env.db.SqlDB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one record, got %d", count)
	}
}

func TestAuthService_Register_ConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.auth.Register(ctx, validInput("same@example.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateEmail):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dupes != 4 {
		t.Fatalf("expected 1 success and 4 duplicates, got %d and %d", ok, dupes)
	}
}

func TestAuthService_Register_ValidationBeforeStore(t *testing.T) {
	env := newTestEnv(t)

	in := service.RegistrationInput{Password: "a", ConfirmPassword: "b"}
	_, err := env.auth.Register(context.Background(), in)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Passwords do not match" {
		t.Fatalf("expected password mismatch, got %v", err)
	}
}

func TestAuthService_Register_TrustedRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := validInput("admin@example.com")
	in.Role = domain.RoleAdmin
	reg, err := env.auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role from trusted caller, got %q", reg.Identity.Role)
	}
}

func TestAuthService_RegisterWithVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.RegisterWithVerification(ctx, validInput("verify@example.com"))
	if err != nil {
		t.Fatalf("RegisterWithVerification: %v", err)
	}
	if reg.VerificationErr != nil {
		t.Fatalf("unexpected verification error: %v", reg.VerificationErr)
	}

	mail := env.mailer.last(t)
	if mail.To != "verify@example.com" {
		t.Fatalf("expected mail to verify@example.com, got %s", mail.To)
	}
	if !strings.Contains(mail.HTML, "https://unimax.test/verify?token=") {
		t.Fatalf("expected verify link in body, got %s", mail.HTML)
	}

	user, err := env.users.GetByID(ctx, reg.Identity.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.VerifyToken == "" || user.VerifyTokenExpiry == nil {
		t.Fatal("expected a pending verify token")
	}
}

func TestAuthService_RegisterWithVerification_MailFailureKeepsUser(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.fail = true
	ctx := context.Background()

	reg, err := env.auth.RegisterWithVerification(ctx, validInput("nomail@example.com"))
	if err != nil {
		t.Fatalf("RegisterWithVerification: %v", err)
	}
	if !errors.Is(reg.VerificationErr, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport in VerificationErr, got %v", reg.VerificationErr)
	}
	if _, err := env.users.GetByEmail(ctx, "nomail@example.com"); err != nil {
		t.Fatalf("user should remain after mail failure: %v", err)
	}
}

// failingTokenStore rejects token writes and delegates everything else.
type failingTokenStore struct {
	domain.UserRepository
}

func (failingTokenStore) SetToken(context.Context, string, domain.TokenPurpose, string, time.Time) error {
	return errors.New("disk full")
}

func TestAuthService_RegisterWithVerification_TokenStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	users := failingTokenStore{env.users}
	tokens := service.NewTokenIssuer(users, env.hasher, env.mailer, "https://unimax.test")
	auth := service.NewAuthService(users, env.hasher, tokens)
	ctx := context.Background()

	reg, err := auth.RegisterWithVerification(ctx, validInput("nostore@example.com"))
	if err != nil {
		t.Fatalf("RegisterWithVerification: %v", err)
	}
	if reg.VerificationErr == nil {
		t.Fatal("expected VerificationErr when the token cannot be stored")
	}
	if errors.Is(reg.VerificationErr, domain.ErrTransport) {
		t.Fatalf("store failure must not be reported as a transport failure: %v", reg.VerificationErr)
	}
	if _, err := env.users.GetByEmail(ctx, "nostore@example.com"); err != nil {
		t.Fatalf("user should remain after token failure: %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, validInput("login@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	id, err := env.auth.Login(ctx, "Login@Example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if id.ID != reg.Identity.ID {
		t.Fatalf("expected id %s, got %s", reg.Identity.ID, id.ID)
	}
	if id.Role != domain.RoleUser || id.Name != "Ada Lovelace" {
		t.Fatalf("unexpected identity %+v", id)
	}

	_, wrongPw := env.auth.Login(ctx, "login@example.com", "wrong")
	_, unknown := env.auth.Login(ctx, "ghost@example.com", "secret")
	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatal("wrong password and unknown email must be indistinguishable")
	}

	if _, err := env.auth.Login(ctx, "", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.auth.Login(ctx, "login@example.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginExternal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ext := domain.ExternalIdentity{
		Provider:   "github",
		ProviderID: "42",
		Email:      "Octo@Example.com",
		Name:       "Octo Cat",
		Image:      "https://avatars.test/42.png",
	}
	first, err := env.auth.LoginExternal(ctx, ext)
	if err != nil {
		t.Fatalf("LoginExternal: %v", err)
	}
	if first.Email != "octo@example.com" || first.Name != "Octo Cat" || first.Image != ext.Image {
		t.Fatalf("unexpected identity %+v", first)
	}

	again, err := env.auth.LoginExternal(ctx, ext)
	if err != nil {
		t.Fatalf("second LoginExternal: %v", err)
	}
	if again.ID != first.ID {
		t.Fatal("second sign-in should reuse the account")
	}

	user, err := env.users.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.HasPassword() || !user.IsVerified || user.Provider != "github" {
		t.Fatalf("expected verified password-less github account, got %+v", user)
	}

	// Password-less accounts get the provider hint on credential login.
	if _, err := env.auth.Login(ctx, "octo@example.com", "anything"); !errors.Is(err, domain.ErrNoPasswordSet) {
		t.Fatalf("expected ErrNoPasswordSet, got %v", err)
	}
}

func TestAuthService_LoginExternal_RequiresEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.LoginExternal(context.Background(), domain.ExternalIdentity{Provider: "google"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, validInput("lookup@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := env.auth.GetUserByID(ctx, reg.Identity.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Email != "lookup@example.com" || user.FirstName != "Ada" {
		t.Fatalf("unexpected user: %+v", user)
	}

	for _, id := range []string{"", "00000000-0000-4000-8000-000000000000"} {
		if _, err := env.auth.GetUserByID(ctx, id); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("id %q: expected ErrUnauthorized, got %v", id, err)
		}
	}
}
