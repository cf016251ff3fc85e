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

// SQL queries for refresh token operations.
const (
	sqlInsertRefreshToken = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, session_id, expires_at, revoked_at,
			token_version, global_version_at_issuance, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	sqlRefreshTokenColumns = `
		id, user_id, token_hash, session_id, expires_at, revoked_at,
		token_version, global_version_at_issuance, created_at
	`

	sqlSelectActiveRefreshTokens = `SELECT ` + sqlRefreshTokenColumns + `
		FROM refresh_tokens
		WHERE revoked_at IS NULL AND expires_at > now()
	`

	sqlSelectRefreshTokenBySessionID = `SELECT ` + sqlRefreshTokenColumns + `
		FROM refresh_tokens
		WHERE session_id = $1
	`

	sqlDeleteRefreshToken = `DELETE FROM refresh_tokens WHERE id = $1`

	sqlDeleteRefreshTokensForUser = `DELETE FROM refresh_tokens WHERE user_id = $1`

	sqlDeleteRefreshTokenForSession = `DELETE FROM refresh_tokens WHERE session_id = $1`
)

// refreshTokenRow represents a refresh_tokens row in the database.
type refreshTokenRow struct {
	ID                      string       `db:"id"`
	UserID                  string       `db:"user_id"`
	TokenHash               string       `db:"token_hash"`
	SessionID               string       `db:"session_id"`
	ExpiresAt               time.Time    `db:"expires_at"`
	RevokedAt               sql.NullTime `db:"revoked_at"`
	TokenVersion            int          `db:"token_version"`
	GlobalVersionAtIssuance int          `db:"global_version_at_issuance"`
	CreatedAt               time.Time    `db:"created_at"`
}

// RefreshTokenRepository implements token.RefreshTokenRepository against PostgreSQL.
type RefreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository.
func NewRefreshTokenRepository(db *sqlx.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Save inserts a new refresh token record. Rotation always creates a fresh
// record rather than updating one in place, so no update path exists here.
func (r *RefreshTokenRepository) Save(ctx context.Context, t *token.RefreshTokenData) error {
	_, err := r.db.ExecContext(
		ctx,
		sqlInsertRefreshToken,
		t.ID.String(),
		t.UserID.String(),
		t.TokenHash,
		t.SessionID.String(),
		t.ExpiresAt,
		nullTime(t.RevokedAt),
		t.TokenVersion,
		t.GlobalVersionAtIssuance,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// FindByVerification scans non-revoked, non-expired candidates and returns
// the one whose hash matches plain, per the package doc's O(N) contract.
func (r *RefreshTokenRepository) FindByVerification(ctx context.Context, plain string) (*token.RefreshTokenData, error) {
	var rows []refreshTokenRow
	if err := r.db.SelectContext(ctx, &rows, sqlSelectActiveRefreshTokens); err != nil {
		return nil, fmt.Errorf("failed to scan refresh tokens: %w", err)
	}

	for _, row := range rows {
		if token.VerifyOpaque(plain, row.TokenHash) {
			return rowToRefreshToken(row)
		}
	}
	return nil, token.ErrRefreshTokenNotFound
}

// FindBySessionID retrieves the refresh token record bound to a session.
func (r *RefreshTokenRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*token.RefreshTokenData, error) {
	var row refreshTokenRow
	if err := r.db.GetContext(ctx, &row, sqlSelectRefreshTokenBySessionID, sessionID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, token.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token by session id: %w", err)
	}
	return rowToRefreshToken(row)
}

// Delete permanently removes a refresh token record, used on rotation.
func (r *RefreshTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, sqlDeleteRefreshToken, id.String()); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every refresh token belonging to userID, returning the count.
func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx, sqlDeleteRefreshTokensForUser, userID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh tokens for user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// DeleteForSession removes the refresh token record bound to a session.
func (r *RefreshTokenRepository) DeleteForSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, sqlDeleteRefreshTokenForSession, sessionID.String()); err != nil {
		return fmt.Errorf("failed to delete refresh token for session: %w", err)
	}
	return nil
}

// rowToRefreshToken converts a database row to a token.RefreshTokenData entity.
func rowToRefreshToken(row refreshTokenRow) (*token.RefreshTokenData, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token id: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	sessionID, err := uuid.Parse(row.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	t := &token.RefreshTokenData{
		ID:                      id,
		UserID:                  userID,
		TokenHash:               row.TokenHash,
		SessionID:               sessionID,
		ExpiresAt:               row.ExpiresAt,
		TokenVersion:            row.TokenVersion,
		GlobalVersionAtIssuance: row.GlobalVersionAtIssuance,
		CreatedAt:               row.CreatedAt,
	}
	if row.RevokedAt.Valid {
		t.RevokedAt = &row.RevokedAt.Time
	}
	return t, nil
}
