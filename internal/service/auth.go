package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

// AuthService handles registration and login against the credential store.
type AuthService struct {
	users     domain.UserRepository
	hasher    PasswordHasher
	tokens    *TokenIssuer
	dummyHash string
}

// Registration is the outcome of a successful sign-up.
type Registration struct {
	Identity domain.Identity
	// VerificationErr is set when the record was created but no verification
	// email went out. Delivery failures wrap domain.ErrTransport; a failure to
	// store the token does not.
	VerificationErr error
}

// NewAuthService creates a new AuthService. tokens may be nil when
// verification emails are not needed.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens *TokenIssuer) *AuthService {
	s := &AuthService{users: users, hasher: hasher, tokens: tokens}
	// Compared against when the email is unknown so login timing matches.
	if h, err := hasher.Hash("not-a-real-password"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Register validates the input and creates a credentials account.
func (s *AuthService) Register(ctx context.Context, in RegistrationInput) (*Registration, error) {
	user, err := s.register(ctx, in)
	if err != nil {
		return nil, err
	}
	return &Registration{Identity: user.Identity()}, nil
}

// RegisterWithVerification registers and then sends a verification email. A
// delivery failure is reported in Registration.VerificationErr; the account
// stays in place.
func (s *AuthService) RegisterWithVerification(ctx context.Context, in RegistrationInput) (*Registration, error) {
	user, err := s.register(ctx, in)
	if err != nil {
		return nil, err
	}

	reg := &Registration{Identity: user.Identity()}
	if s.tokens == nil {
		return reg, nil
	}
	if _, err := s.tokens.Issue(ctx, user, domain.PurposeVerify); err != nil {
		slog.Error("send verification email", "user_id", user.ID, "error", err)
		reg.VerificationErr = err
	}
	return reg, nil
}

func (s *AuthService) register(ctx context.Context, in RegistrationInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := in.toUser(hash)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and returns the normalized identity.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, domain.ErrNoPasswordSet
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	id := user.Identity()
	return &id, nil
}

// LoginExternal signs in an identity vouched for by an external issuer,
// creating a password-less verified account on first use.
func (s *AuthService) LoginExternal(ctx context.Context, ext domain.ExternalIdentity) (*domain.Identity, error) {
	email := domain.NormalizeEmail(ext.Email)
	if email == "" {
		return nil, domain.Invalid("email", "Provider did not return an email address")
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.createExternal(ctx, email, ext)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("get user: %w", err)
	}

	id := user.Identity()
	if id.Image == "" {
		id.Image = ext.Image
	}
	return &id, nil
}

func (s *AuthService) createExternal(ctx context.Context, email string, ext domain.ExternalIdentity) (*domain.User, error) {
	first, last, _ := strings.Cut(strings.TrimSpace(ext.Name), " ")
	user := &domain.User{
		Email:       email,
		FirstName:   first,
		LastName:    strings.TrimSpace(last),
		Image:       ext.Image,
		AccountType: domain.AccountTypeIndividual,
		Role:        domain.RoleUser,
		IsVerified:  true,
		Provider:    ext.Provider,
	}

	err := s.users.Create(ctx, user)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in.
		return s.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("external user created", "user_id", user.ID, "provider", ext.Provider)
	return user, nil
}

// GetUserByID loads the stored record behind a session. A session whose
// account has since been removed yields domain.ErrUnauthorized.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
