package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dashtam/core/internal/domain/session"
)

// SQL queries for session operations.
const (
	sqlInsertSession = `
		INSERT INTO sessions (
			id, user_id, device_info, user_agent, ip_address, last_ip_address, location,
			created_at, last_activity_at, expires_at, revoked, revoked_at, revoked_reason,
			trusted, refresh_token_id, suspicious_activity_count,
			provider_access_token, provider_refresh_token, provider_token_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	sqlUpdateSession = `
		UPDATE sessions
		SET user_agent = $2,
		    ip_address = $3,
		    last_ip_address = $4,
		    location = $5,
		    last_activity_at = $6,
		    expires_at = $7,
		    revoked = $8,
		    revoked_at = $9,
		    revoked_reason = $10,
		    trusted = $11,
		    refresh_token_id = $12,
		    suspicious_activity_count = $13,
		    provider_access_token = $14,
		    provider_refresh_token = $15,
		    provider_token_expires_at = $16
		WHERE id = $1
	`

	sqlSessionColumns = `
		id, user_id, device_info, user_agent, ip_address, last_ip_address, location,
		created_at, last_activity_at, expires_at, revoked, revoked_at, revoked_reason,
		trusted, refresh_token_id, suspicious_activity_count,
		provider_access_token, provider_refresh_token, provider_token_expires_at
	`

	sqlSelectSessionByID = `SELECT ` + sqlSessionColumns + `
		FROM sessions
		WHERE id = $1
	`

	sqlSelectSessionsByUserID = `SELECT ` + sqlSessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	sqlSelectActiveSessionsByUserID = `SELECT ` + sqlSessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
		ORDER BY created_at DESC
	`

	sqlSelectSessionByRefreshTokenID = `SELECT ` + sqlSessionColumns + `
		FROM sessions
		WHERE refresh_token_id = $1
	`

	sqlCountActiveSessions = `
		SELECT count(*) FROM sessions
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
	`

	sqlDeleteSession = `DELETE FROM sessions WHERE id = $1`

	sqlDeleteAllSessionsForUser = `DELETE FROM sessions WHERE user_id = $1`

	sqlRevokeAllForUser = `
		UPDATE sessions
		SET revoked = true, revoked_at = $3, revoked_reason = $4
		WHERE user_id = $1 AND revoked = false AND expires_at > now() AND ($2::uuid IS NULL OR id != $2)
	`

	sqlSelectOldestActiveSession = `SELECT ` + sqlSessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
		ORDER BY created_at ASC
		LIMIT 1
	`

	sqlDeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at < $1`
)

// sessionRow represents a session row in the database.
type sessionRow struct {
	ID                      string         `db:"id"`
	UserID                  string         `db:"user_id"`
	DeviceInfo              sql.NullString `db:"device_info"`
	UserAgent               sql.NullString `db:"user_agent"`
	IPAddress               sql.NullString `db:"ip_address"`
	LastIPAddress           sql.NullString `db:"last_ip_address"`
	Location                sql.NullString `db:"location"`
	CreatedAt               time.Time      `db:"created_at"`
	LastActivityAt          time.Time      `db:"last_activity_at"`
	ExpiresAt               time.Time      `db:"expires_at"`
	Revoked                 bool           `db:"revoked"`
	RevokedAt               sql.NullTime   `db:"revoked_at"`
	RevokedReason           sql.NullString `db:"revoked_reason"`
	Trusted                 bool           `db:"trusted"`
	RefreshTokenID          sql.NullString `db:"refresh_token_id"`
	SuspiciousActivityCount int            `db:"suspicious_activity_count"`
	ProviderAccessToken     sql.NullString `db:"provider_access_token"`
	ProviderRefreshToken    sql.NullString `db:"provider_refresh_token"`
	ProviderTokenExpiresAt  sql.NullTime   `db:"provider_token_expires_at"`
}

// SessionRepository implements session.Repository against PostgreSQL.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save creates or updates a session depending on whether it already exists.
func (r *SessionRepository) Save(ctx context.Context, s *session.Data) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)", s.ID.String()); err != nil {
		return fmt.Errorf("failed to check session existence: %w", err)
	}
	if exists {
		return r.update(ctx, s)
	}
	return r.insert(ctx, s)
}

func (r *SessionRepository) insert(ctx context.Context, s *session.Data) error {
	_, err := r.db.ExecContext(
		ctx,
		sqlInsertSession,
		s.ID.String(),
		s.UserID.String(),
		nullString(s.DeviceInfo),
		nullString(s.UserAgent),
		nullString(s.IPAddress),
		nullString(s.LastIPAddress),
		nullString(s.Location),
		s.CreatedAt,
		s.LastActivityAt,
		s.ExpiresAt,
		s.Revoked,
		nullTime(s.RevokedAt),
		nullString(string(s.RevokedReason)),
		s.Trusted,
		nullUUID(s.RefreshTokenID),
		s.SuspiciousActivityCount,
		nullString(s.ProviderAccessToken),
		nullString(s.ProviderRefreshToken),
		nullTime(s.ProviderTokenExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) update(ctx context.Context, s *session.Data) error {
	result, err := r.db.ExecContext(
		ctx,
		sqlUpdateSession,
		s.ID.String(),
		nullString(s.UserAgent),
		nullString(s.IPAddress),
		nullString(s.LastIPAddress),
		nullString(s.Location),
		s.LastActivityAt,
		s.ExpiresAt,
		s.Revoked,
		nullTime(s.RevokedAt),
		nullString(string(s.RevokedReason)),
		s.Trusted,
		nullUUID(s.RefreshTokenID),
		s.SuspiciousActivityCount,
		nullString(s.ProviderAccessToken),
		nullString(s.ProviderRefreshToken),
		nullTime(s.ProviderTokenExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Data, error) {
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, sqlSelectSessionByID, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}
	return rowToSession(row)
}

// FindByUserID retrieves sessions for a user, optionally restricted to active ones.
func (r *SessionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*session.Data, error) {
	query := sqlSelectSessionsByUserID
	if activeOnly {
		query = sqlSelectActiveSessionsByUserID
	}

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, userID.String()); err != nil {
		return nil, fmt.Errorf("failed to get sessions by user id: %w", err)
	}

	sessions := make([]*session.Data, 0, len(rows))
	for _, row := range rows {
		s, err := rowToSession(row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert row to session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// FindByRefreshTokenID retrieves the session bound to a given refresh token record.
func (r *SessionRepository) FindByRefreshTokenID(ctx context.Context, refreshTokenID uuid.UUID) (*session.Data, error) {
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, sqlSelectSessionByRefreshTokenID, refreshTokenID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by refresh token id: %w", err)
	}
	return rowToSession(row)
}

// CountActiveSessions returns the count of non-revoked, non-expired sessions for userID.
func (r *SessionRepository) CountActiveSessions(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, sqlCountActiveSessions, userID.String()); err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

// Delete permanently removes a session row.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, sqlDeleteSession, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteAllForUser permanently removes every session row belonging to userID.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, sqlDeleteAllSessionsForUser, userID.String()); err != nil {
		return fmt.Errorf("failed to delete sessions for user: %w", err)
	}
	return nil
}

// RevokeAllForUser bulk-revokes every active session for userID except exceptSessionID.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason session.RevocationReason, exceptSessionID *uuid.UUID) (int, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, sqlRevokeAllForUser, userID.String(), nullUUID(exceptSessionID), now, string(reason))
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions for user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// GetOldestActiveSession returns the longest-lived active session for userID, used
// for FIFO eviction when a user is at their session-tier cap.
func (r *SessionRepository) GetOldestActiveSession(ctx context.Context, userID uuid.UUID) (*session.Data, error) {
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, sqlSelectOldestActiveSession, userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get oldest active session: %w", err)
	}
	return rowToSession(row)
}

// CleanupExpiredSessions deletes sessions that expired before the given time.
func (r *SessionRepository) CleanupExpiredSessions(ctx context.Context, before time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, sqlDeleteExpiredSessions, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// rowToSession converts a database row to a session.Data entity.
func rowToSession(row sessionRow) (*session.Data, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	s := &session.Data{
		ID:                      id,
		UserID:                  userID,
		DeviceInfo:              nullStringValue(row.DeviceInfo),
		UserAgent:               nullStringValue(row.UserAgent),
		IPAddress:               nullStringValue(row.IPAddress),
		LastIPAddress:           nullStringValue(row.LastIPAddress),
		Location:                nullStringValue(row.Location),
		CreatedAt:               row.CreatedAt,
		LastActivityAt:          row.LastActivityAt,
		ExpiresAt:               row.ExpiresAt,
		Revoked:                 row.Revoked,
		RevokedReason:           session.RevocationReason(nullStringValue(row.RevokedReason)),
		Trusted:                 row.Trusted,
		SuspiciousActivityCount: row.SuspiciousActivityCount,
		ProviderAccessToken:     nullStringValue(row.ProviderAccessToken),
		ProviderRefreshToken:    nullStringValue(row.ProviderRefreshToken),
	}

	if row.RevokedAt.Valid {
		s.RevokedAt = &row.RevokedAt.Time
	}
	if row.ProviderTokenExpiresAt.Valid {
		s.ProviderTokenExpiresAt = &row.ProviderTokenExpiresAt.Time
	}
	if row.RefreshTokenID.Valid {
		refreshTokenID, err := uuid.Parse(row.RefreshTokenID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh token id: %w", err)
		}
		s.RefreshTokenID = &refreshTokenID
	}

	return s, nil
}

// nullString converts a string to sql.NullString.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue extracts the string value from sql.NullString.
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullUUID converts a *uuid.UUID to sql.NullString for storage in a uuid column.
func nullUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: id.String(), Valid: true}
}
