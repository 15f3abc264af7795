package domain

import "context"

// TokenPurpose selects which token field pair a verification token lives in.
type TokenPurpose string

const (
	PurposeVerify TokenPurpose = "VERIFY"
	PurposeReset  TokenPurpose = "RESET"
)

// Valid reports whether p is a known purpose.
func (p TokenPurpose) Valid() bool {
	return p == PurposeVerify || p == PurposeReset
}

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}
