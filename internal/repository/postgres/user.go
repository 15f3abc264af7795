package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/unimaxdigital/agency-web/internal/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, company, image,
	account_type, agree_to_terms, subscribe_newsletter, role, is_verified, provider,
	verify_token, verify_token_expiry, forgot_password_token, forgot_password_token_expiry,
	created_at, updated_at`

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// UserRepository implements domain.UserRepository on PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	id := uuid.New()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, phone, company, image,
			account_type, agree_to_terms, subscribe_newsletter, role, is_verified, provider)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		id.String(), domain.NormalizeEmail(user.Email), user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Company, user.Image, user.AccountType, user.AgreeToTerms, user.SubscribeNewsletter,
		user.Role, user.IsVerified, user.Provider,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id.String()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "query user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, domain.NormalizeEmail(email))
	return scanUser(row, "query user by email")
}

func (r *UserRepository) GetByToken(ctx context.Context, purpose domain.TokenPurpose, token string) (*domain.User, error) {
	tokenCol, _, err := tokenColumns(purpose)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+tokenCol+` = $1`, token)
	return scanUser(row, "query user by token")
}

func (r *UserRepository) SetToken(ctx context.Context, id string, purpose domain.TokenPurpose, token string, expiry time.Time) error {
	tokenCol, expiryCol, err := tokenColumns(purpose)
	if err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+tokenCol+` = $1, `+expiryCol+` = $2, updated_at = now() WHERE id = $3`,
		token, expiry.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set %s token: %w", purpose, err)
	}
	return requireOneRow(result)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_verified = TRUE, verify_token = NULL, verify_token_expiry = NULL, updated_at = now()
		 WHERE id = $1 AND verify_token = $2`,
		id, token,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return requireOneRow(result)
}

func (r *UserRepository) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, forgot_password_token = NULL, forgot_password_token_expiry = NULL, updated_at = now()
		 WHERE id = $2 AND forgot_password_token = $3`,
		passwordHash, id, token,
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
