package domain

import "time"

// Identity is the normalized shape produced by registration, credential login
// and external login, so sessions treat all three the same way.
type Identity struct {
	ID    string
	Email string
	Role  string
	Name  string
	Image string
}

// Session is the request-scoped view materialized from a session token.
type Session struct {
	User    Identity
	Expires time.Time
}

// ExternalIdentity is what an OAuth provider reports about the signed-in account.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Image      string
}
