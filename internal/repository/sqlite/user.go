package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unimaxdigital/agency-web/internal/domain"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, company, image,
	account_type, agree_to_terms, subscribe_newsletter, role, is_verified, provider,
	verify_token, verify_token_expiry, forgot_password_token, forgot_password_token_expiry,
	created_at, updated_at`

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, phone, company, image,
			account_type, agree_to_terms, subscribe_newsletter, role, is_verified, provider,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Company, user.Image,
		user.AccountType, user.AgreeToTerms, user.SubscribeNewsletter, user.Role, user.IsVerified, user.Provider,
		now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, "query user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email))
	return scanUser(row, "query user by email")
}

func (r *UserRepository) GetByToken(ctx context.Context, purpose domain.TokenPurpose, token string) (*domain.User, error) {
	tokenCol, _, err := tokenColumns(purpose)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+tokenCol+` = ?`, token)
	return scanUser(row, "query user by token")
}

func (r *UserRepository) SetToken(ctx context.Context, id string, purpose domain.TokenPurpose, token string, expiry time.Time) error {
	tokenCol, expiryCol, err := tokenColumns(purpose)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+tokenCol+` = ?, `+expiryCol+` = ?, updated_at = ? WHERE id = ?`,
		token, expiry.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set %s token: %w", purpose, err)
	}
	return requireOneRow(result)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = 1, verify_token = NULL, verify_token_expiry = NULL, updated_at = ?
		 WHERE id = ? AND verify_token = ?`,
		time.Now().UTC(), id, token,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return requireOneRow(result)
}

func (r *UserRepository) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, forgot_password_token = NULL, forgot_password_token_expiry = NULL, updated_at = ?
		 WHERE id = ? AND forgot_password_token = ?`,
		passwordHash, time.Now().UTC(), id, token,
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return requireOneRow(result)
}

func tokenColumns(purpose domain.TokenPurpose) (token, expiry string, err error) {
	switch purpose {
	case domain.PurposeVerify:
		return "verify_token", "verify_token_expiry", nil
	case domain.PurposeReset:
		return "forgot_password_token", "forgot_password_token_expiry", nil
	}
	return "", "", fmt.Errorf("%w: unknown token purpose %q", domain.ErrInvalidInput, purpose)
}

func scanUser(row *sql.Row, op string) (*domain.User, error) {
	var (
		u                         domain.User
		verifyToken, resetToken   sql.NullString
		verifyExpiry, resetExpiry sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Company, &u.Image,
		&u.AccountType, &u.AgreeToTerms, &u.SubscribeNewsletter, &u.Role, &u.IsVerified, &u.Provider,
		&verifyToken, &verifyExpiry, &resetToken, &resetExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.VerifyToken = verifyToken.String
	u.ForgotPasswordToken = resetToken.String
	if verifyExpiry.Valid {
		u.VerifyTokenExpiry = &verifyExpiry.Time
	}
	if resetExpiry.Valid {
		u.ForgotPasswordTokenExpiry = &resetExpiry.Time
	}
	return &u, nil
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
