package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unimaxdigital/agency-web/internal/repository"
	"github.com/unimaxdigital/agency-web/internal/repository/sqlite"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	for _, url := range []string{
		"sqlite:" + filepath.Join(t.TempDir(), "a.db"),
		filepath.Join(t.TempDir(), "b.db"),
	} {
		db, err := repository.Open(ctx, url, "")
		require.NoError(t, err, url)
		assert.IsType(t, &sqlite.DB{}, db)
		require.NoError(t, db.Migrate(ctx))
		require.NoError(t, db.Close())
	}
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := repository.Open(context.Background(), "redis://localhost:6379", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database url scheme")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "postgres", repository.Kind("postgres://u@h/db"))
	assert.Equal(t, "mongodb", repository.Kind("mongodb+srv://cluster"))
	assert.Equal(t, "sqlite", repository.Kind("sqlite:agency.db"))
}
