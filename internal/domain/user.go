package domain

import (
	"context"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderCredentials = "credentials"

	AccountTypeIndividual = "individual"
)

// User represents one registered identity.
type User struct {
	ID                        string
	Email                     string
	PasswordHash              string // Empty for accounts created through an external issuer
	FirstName                 string
	LastName                  string
	Phone                     string
	Company                   string
	Image                     string
	AccountType               string
	AgreeToTerms              bool
	SubscribeNewsletter       bool
	Role                      string
	IsVerified                bool
	Provider                  string
	VerifyToken               string
	VerifyTokenExpiry         *time.Time
	ForgotPasswordToken       string
	ForgotPasswordTokenExpiry *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// HasPassword reports whether the account can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// DisplayName returns the trimmed first and last name, falling back to the
// local part of the email address.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Email)
}

// Identity returns the normalized identity carried into sessions.
func (u *User) Identity() Identity {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return Identity{
		ID:    u.ID,
		Email: u.Email,
		Role:  role,
		Name:  u.DisplayName(),
		Image: u.Image,
	}
}

// DisplayName normalizes a display name from profile fields.
func DisplayName(firstName, lastName, email string) string {
	if firstName != "" || lastName != "" {
		if name := strings.TrimSpace(firstName + " " + lastName); name != "" {
			return name
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and assigns ID, CreatedAt and UpdatedAt.
	// Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByToken finds the user holding the given pending token for purpose.
	GetByToken(ctx context.Context, purpose TokenPurpose, token string) (*User, error)
	// SetToken stores a token and its expiry on the purpose's field pair.
	SetToken(ctx context.Context, id string, purpose TokenPurpose, token string, expiry time.Time) error
	// MarkVerified sets IsVerified and clears the verify token pair, but only
	// while token is still the pending one. Returns ErrNotFound otherwise.
	MarkVerified(ctx context.Context, id, token string) error
	// ResetPassword stores a new hash and clears the reset token pair, but only
	// while token is still the pending one. Returns ErrNotFound otherwise.
	ResetPassword(ctx context.Context, id, token, passwordHash string) error
}
