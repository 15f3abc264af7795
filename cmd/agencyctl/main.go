// Command agencyctl administers the credential store: it applies migrations
// and creates accounts with a chosen role.
//
// Usage:
//
//	agencyctl migrate
//	agencyctl create-user -email admin@unimax.digital -first Ada -last Lovelace -role admin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/repository"
	"github.com/unimaxdigital/agency-web/internal/service"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "agencyctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: agencyctl <migrate|create-user> [flags]")
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	dbURL := fs.String("db", envOr("DATABASE_URL", "sqlite:agency.db"), "database URL")
	mongoDB := fs.String("mongo-db", envOr("MONGODB_DATABASE", "agency"), "MongoDB database name")

	switch args[0] {
	case "migrate":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		db, err := open(ctx, *dbURL, *mongoDB)
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Fprintf(out, "migrated %s store\n", repository.Kind(*dbURL))
		return nil

	case "create-user":
		email := fs.String("email", "", "account email (required)")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		role := fs.String("role", domain.RoleUser, "role: user or admin")
		cost := fs.Int("cost", service.DefaultBcryptCost, "bcrypt cost")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *role != domain.RoleUser && *role != domain.RoleAdmin {
			return fmt.Errorf("unknown role %q", *role)
		}

		password, err := promptPassword(out, "Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword(out, "Confirm password: ")
		if err != nil {
			return err
		}

		db, err := open(ctx, *dbURL, *mongoDB)
		if err != nil {
			return err
		}
		defer db.Close()

		auth := service.NewAuthService(db.Users(), service.NewBcryptHasher(*cost), nil)
		reg, err := auth.Register(ctx, service.RegistrationInput{
			Email:           *email,
			Password:        password,
			ConfirmPassword: confirm,
			FirstName:       *first,
			LastName:        *last,
			AgreeToTerms:    true,
			Role:            *role,
		})
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return errors.New(verr.Message)
			}
			return err
		}
		fmt.Fprintf(out, "created %s %s (%s)\n", reg.Identity.Role, reg.Identity.Email, reg.Identity.ID)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func open(ctx context.Context, url, mongoDB string) (domain.Database, error) {
	db, err := repository.Open(ctx, url, mongoDB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func promptPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
