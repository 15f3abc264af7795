package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/unimaxdigital/agency-web/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_CreatesUsersTable(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		"u1", "test@example.com", "hash123",
	); err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	// Email uniqueness ignores case.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (id, email) VALUES (?, ?)", "u2", "TEST@example.com",
	); err == nil {
		t.Fatal("expected unique violation for differently-cased email")
	}

	var role, accountType string
	if err := db.QueryRowContext(ctx, "SELECT role, account_type FROM users WHERE id = 'u1'").Scan(&role, &accountType); err != nil {
		t.Fatalf("select defaults: %v", err)
	}
	if role != "user" || accountType != "individual" {
		t.Fatalf("unexpected defaults role=%q account_type=%q", role, accountType)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", count)
	}
}

func TestApply_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE nope (")},
	}
	if err := migrations.Apply(ctx, db, fsys); err == nil {
		t.Fatal("expected error from broken migration")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = '002_broken.sql'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("broken migration should not be recorded")
	}
}
