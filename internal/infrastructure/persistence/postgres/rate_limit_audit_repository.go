package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dashtam/core/internal/domain/security"
)

// SQL queries for rate limit audit logging.
const (
	sqlInsertRateLimitAudit = `
		INSERT INTO rate_limit_audit_log (
			endpoint, identifier, ip_address, rule_name, "limit", window_seconds, violation_count, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	sqlSelectRecentRateLimitAuditByIdentifier = `
		SELECT id, endpoint, identifier, ip_address, rule_name, "limit", window_seconds, violation_count, created_at
		FROM rate_limit_audit_log
		WHERE identifier = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
)

type rateLimitAuditRow struct {
	ID             int64     `db:"id"`
	Endpoint       string    `db:"endpoint"`
	Identifier     string    `db:"identifier"`
	IPAddress      string    `db:"ip_address"`
	RuleName       string    `db:"rule_name"`
	Limit          int       `db:"limit"`
	WindowSeconds  int       `db:"window_seconds"`
	ViolationCount int       `db:"violation_count"`
	CreatedAt      time.Time `db:"created_at"`
}

// RateLimitAuditRepository implements security.RateLimitAuditRepository against PostgreSQL.
type RateLimitAuditRepository struct {
	db *sqlx.DB
}

// NewRateLimitAuditRepository creates a new RateLimitAuditRepository.
func NewRateLimitAuditRepository(db *sqlx.DB) *RateLimitAuditRepository {
	return &RateLimitAuditRepository{db: db}
}

// Record persists a rate limit violation entry, no FK to users.
func (r *RateLimitAuditRepository) Record(ctx context.Context, log *security.RateLimitAuditLog) error {
	var id int64
	err := r.db.GetContext(
		ctx,
		&id,
		sqlInsertRateLimitAudit,
		log.Endpoint,
		nullString(log.Identifier),
		log.IPAddress,
		log.RuleName,
		log.Limit,
		log.WindowSeconds,
		log.ViolationCount,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record rate limit audit: %w", err)
	}
	log.ID = id
	return nil
}

// FindRecentByIdentifier returns violations for identifier since the given time.
func (r *RateLimitAuditRepository) FindRecentByIdentifier(ctx context.Context, identifier string, since time.Time) ([]*security.RateLimitAuditLog, error) {
	var rows []rateLimitAuditRow
	if err := r.db.SelectContext(ctx, &rows, sqlSelectRecentRateLimitAuditByIdentifier, identifier, since); err != nil {
		return nil, fmt.Errorf("failed to query rate limit audit: %w", err)
	}

	logs := make([]*security.RateLimitAuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, &security.RateLimitAuditLog{
			ID:             row.ID,
			Endpoint:       row.Endpoint,
			Identifier:     row.Identifier,
			IPAddress:      row.IPAddress,
			RuleName:       row.RuleName,
			Limit:          row.Limit,
			WindowSeconds:  row.WindowSeconds,
			ViolationCount: row.ViolationCount,
			CreatedAt:      row.CreatedAt,
		})
	}
	return logs, nil
}
