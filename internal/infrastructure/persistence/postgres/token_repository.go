package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dashtam/core/internal/domain/token"
)

// SQL queries for email verification tokens.
const (
	sqlInsertEmailVerificationToken = `
		INSERT INTO email_verification_tokens (user_id, token, expires_at, used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET used_at = EXCLUDED.used_at
	`

	sqlSelectEmailVerificationToken = `
		SELECT user_id, token, expires_at, used_at
		FROM email_verification_tokens
		WHERE token = $1
	`
)

// SQL queries for password reset tokens.
const (
	sqlInsertPasswordResetToken = `
		INSERT INTO password_reset_tokens (user_id, token, ip_address, user_agent, expires_at, used_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token) DO UPDATE SET used_at = EXCLUDED.used_at
	`

	sqlSelectPasswordResetToken = `
		SELECT user_id, token, ip_address, user_agent, expires_at, used_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	sqlCountRecentPasswordResetTokens = `
		SELECT count(*) FROM password_reset_tokens
		WHERE user_id = $1 AND expires_at - ($3::interval) > $2
	`
)

type emailVerificationTokenRow struct {
	UserID    string       `db:"user_id"`
	Token     string       `db:"token"`
	ExpiresAt time.Time    `db:"expires_at"`
	UsedAt    sql.NullTime `db:"used_at"`
}

type passwordResetTokenRow struct {
	UserID    string         `db:"user_id"`
	Token     string         `db:"token"`
	IPAddress sql.NullString `db:"ip_address"`
	UserAgent sql.NullString `db:"user_agent"`
	ExpiresAt time.Time      `db:"expires_at"`
	UsedAt    sql.NullTime   `db:"used_at"`
}

// EmailVerificationRepository implements token.EmailVerificationRepository against PostgreSQL.
type EmailVerificationRepository struct {
	db *sqlx.DB
}

// NewEmailVerificationRepository creates a new EmailVerificationRepository.
func NewEmailVerificationRepository(db *sqlx.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

// Save inserts or updates (on replayed MarkUsed) an email verification token.
func (r *EmailVerificationRepository) Save(ctx context.Context, t *token.EmailVerificationToken) error {
	_, err := r.db.ExecContext(ctx, sqlInsertEmailVerificationToken, t.UserID.String(), t.Token, t.ExpiresAt, nullTime(t.UsedAt))
	if err != nil {
		return fmt.Errorf("failed to save email verification token: %w", err)
	}
	return nil
}

// FindByToken retrieves an email verification token by its plaintext value.
func (r *EmailVerificationRepository) FindByToken(ctx context.Context, plain string) (*token.EmailVerificationToken, error) {
	var row emailVerificationTokenRow
	if err := r.db.GetContext(ctx, &row, sqlSelectEmailVerificationToken, plain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, token.ErrEmailVerificationTokenNotFound
		}
		return nil, fmt.Errorf("failed to find email verification token: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	t := &token.EmailVerificationToken{UserID: userID, Token: row.Token, ExpiresAt: row.ExpiresAt}
	if row.UsedAt.Valid {
		t.UsedAt = &row.UsedAt.Time
	}
	return t, nil
}

// PasswordResetRepository implements token.PasswordResetRepository against PostgreSQL.
type PasswordResetRepository struct {
	db *sqlx.DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Save inserts or updates (on replayed MarkUsed) a password reset token.
func (r *PasswordResetRepository) Save(ctx context.Context, t *token.PasswordResetToken) error {
	_, err := r.db.ExecContext(
		ctx,
		sqlInsertPasswordResetToken,
		t.UserID.String(),
		t.Token,
		nullString(t.IPAddress),
		nullString(t.UserAgent),
		t.ExpiresAt,
		nullTime(t.UsedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save password reset token: %w", err)
	}
	return nil
}

// FindByToken retrieves a password reset token by its plaintext value.
func (r *PasswordResetRepository) FindByToken(ctx context.Context, plain string) (*token.PasswordResetToken, error) {
	var row passwordResetTokenRow
	if err := r.db.GetContext(ctx, &row, sqlSelectPasswordResetToken, plain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, token.ErrPasswordResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to find password reset token: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	t := &token.PasswordResetToken{
		UserID:    userID,
		Token:     row.Token,
		IPAddress: nullStringValue(row.IPAddress),
		UserAgent: nullStringValue(row.UserAgent),
		ExpiresAt: row.ExpiresAt,
	}
	if row.UsedAt.Valid {
		t.UsedAt = &row.UsedAt.Time
	}
	return t, nil
}

// CountRecentForUser counts password reset tokens issued to userID since the
// given time, for the rate-limit guard on reset requests.
func (r *PasswordResetRepository) CountRecentForUser(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	// expires_at was set to issued_at + PasswordResetTTL, so issued_at = expires_at - TTL.
	if err := r.db.GetContext(ctx, &count, sqlCountRecentPasswordResetTokens, userID.String(), since, fmt.Sprintf("%d seconds", int(token.PasswordResetTTL.Seconds()))); err != nil {
		return 0, fmt.Errorf("failed to count recent password reset tokens: %w", err)
	}
	return count, nil
}
