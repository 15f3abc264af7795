// Package repository selects a credential store from a connection URL.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/repository/mongodb"
	"github.com/unimaxdigital/agency-web/internal/repository/postgres"
	"github.com/unimaxdigital/agency-web/internal/repository/sqlite"
)

// Open connects to the store named by url:
//
//	sqlite:path/to/file.db   (or a bare path)
//	postgres://… / postgresql://…
//	mongodb://… / mongodb+srv://…
//
// mongoDatabase names the database used for MongoDB URLs.
func Open(ctx context.Context, url, mongoDatabase string) (domain.Database, error) {
	var (
		db  domain.Database
		err error
	)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err = unwrap(postgres.New(ctx, url))
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		db, err = unwrap(mongodb.New(ctx, url, mongoDatabase))
	case strings.HasPrefix(url, "sqlite:"):
		db, err = unwrap(sqlite.New(strings.TrimPrefix(url, "sqlite:")))
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("unsupported database url scheme in %q", url)
	default:
		db, err = unwrap(sqlite.New(url))
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

// unwrap keeps a typed nil pointer out of the returned interface.
func unwrap[T domain.Database](db T, err error) (domain.Database, error) {
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Kind names the backend Open would pick for url, for logging.
func Kind(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres"):
		return "postgres"
	case strings.HasPrefix(url, "mongodb"):
		return "mongodb"
	default:
		return "sqlite"
	}
}
