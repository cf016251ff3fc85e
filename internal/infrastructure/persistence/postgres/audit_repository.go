package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dashtam/core/internal/domain/security"
)

const sqlInsertAuditRecord = `
	INSERT INTO audit_log (
		action, user_id, resource_type, resource_id, ip_address, user_agent, context, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
`

// AuditRepository implements security.AuditRepository against PostgreSQL.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record persists an append-only audit entry. No FK to users: a deleted
// user's audit trail must survive the deletion.
func (r *AuditRepository) Record(ctx context.Context, rec *security.AuditRecord) error {
	var id int64
	err := r.db.GetContext(
		ctx,
		&id,
		sqlInsertAuditRecord,
		rec.Action,
		nullStringPtr(rec.UserID),
		rec.ResourceType,
		nullStringPtr(rec.ResourceID),
		nullString(rec.IPAddress),
		nullString(rec.UserAgent),
		rec.Context,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	rec.ID = id
	return nil
}

// nullStringPtr converts a *string to sql.NullString.
func nullStringPtr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
