package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/unimaxdigital/agency-web/internal/domain"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = 24 * time.Hour

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SessionIssuer mints and verifies stateless HS256 session tokens.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SessionOption configures a SessionIssuer.
type SessionOption func(*SessionIssuer)

// WithSessionClock overrides the clock used for iat, exp and validation.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionIssuer) { s.now = now }
}

// NewSessionIssuer creates a SessionIssuer. A non-positive ttl uses DefaultSessionTTL.
func NewSessionIssuer(secret string, ttl time.Duration, opts ...SessionOption) *SessionIssuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a signed token for id and its expiry.
func (s *SessionIssuer) Issue(id domain.Identity) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: id.Email,
		Role:  id.Role,
		Name:  id.Name,
		Image: id.Image,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Materialize verifies a token and rebuilds the session it carries. Any
// failure yields domain.ErrUnauthorized.
func (s *SessionIssuer) Materialize(token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrUnauthorized
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.Session{
		User: domain.Identity{
			ID:    claims.Subject,
			Email: claims.Email,
			Role:  role,
			Name:  claims.Name,
			Image: claims.Image,
		},
		Expires: claims.ExpiresAt.Time,
	}, nil
}
