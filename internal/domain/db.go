package domain

import "context"

// Database defines lifecycle operations for the underlying credential store.
// Each implementation (SQLite, Postgres, MongoDB) owns its own schema or index
// setup, keeping the whole backend swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
}
