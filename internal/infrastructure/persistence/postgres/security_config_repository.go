package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dashtam/core/internal/domain/security"
)

// singletonConfigID is the fixed primary key of the single security_config row.
const singletonConfigID = 1

// SQL queries for the security config singleton.
const (
	sqlSelectSecurityConfig = `
		SELECT global_min_token_version, last_rotation_at, grace_period_seconds, reason
		FROM security_config
		WHERE id = $1
	`

	sqlSelectSecurityConfigForUpdate = sqlSelectSecurityConfig + ` FOR UPDATE`

	sqlUpdateSecurityConfig = `
		UPDATE security_config
		SET global_min_token_version = $2,
		    last_rotation_at = $3,
		    grace_period_seconds = $4,
		    reason = $5
		WHERE id = $1
	`
)

type securityConfigRow struct {
	GlobalMinTokenVersion int       `db:"global_min_token_version"`
	LastRotationAt        time.Time `db:"last_rotation_at"`
	GracePeriodSeconds    int       `db:"grace_period_seconds"`
	Reason                string    `db:"reason"`
}

// SecurityConfigRepository implements security.Repository against PostgreSQL.
// The singleton row is serialised through Postgres row-level locking
// (`SELECT ... FOR UPDATE`) rather than an application-level mutex, so
// rotations remain correct across multiple server processes.
type SecurityConfigRepository struct {
	db *sqlx.DB
}

// NewSecurityConfigRepository creates a new SecurityConfigRepository.
func NewSecurityConfigRepository(db *sqlx.DB) *SecurityConfigRepository {
	return &SecurityConfigRepository{db: db}
}

// Get retrieves the singleton security config row.
func (r *SecurityConfigRepository) Get(ctx context.Context) (*security.Config, error) {
	var row securityConfigRow
	if err := r.db.GetContext(ctx, &row, sqlSelectSecurityConfig, singletonConfigID); err != nil {
		return nil, fmt.Errorf("failed to get security config: %w", err)
	}
	return rowToSecurityConfig(row), nil
}

// UpdateGlobalVersion locks the singleton row for the duration of the
// transaction, applies fn to the loaded config, persists the result, and
// commits — guaranteeing concurrent rotations cannot interleave.
func (r *SecurityConfigRepository) UpdateGlobalVersion(ctx context.Context, fn func(*security.Config) error) (*security.Config, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row securityConfigRow
	if err := tx.GetContext(ctx, &row, sqlSelectSecurityConfigForUpdate, singletonConfigID); err != nil {
		return nil, fmt.Errorf("failed to lock security config: %w", err)
	}

	cfg := rowToSecurityConfig(row)
	if err := fn(cfg); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(
		ctx,
		sqlUpdateSecurityConfig,
		singletonConfigID,
		cfg.GlobalMinTokenVersion,
		cfg.LastRotationAt,
		cfg.GracePeriodSeconds,
		cfg.Reason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update security config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit security config update: %w", err)
	}

	return cfg, nil
}

func rowToSecurityConfig(row securityConfigRow) *security.Config {
	return &security.Config{
		GlobalMinTokenVersion: row.GlobalMinTokenVersion,
		LastRotationAt:        row.LastRotationAt,
		GracePeriodSeconds:    row.GracePeriodSeconds,
		Reason:                row.Reason,
	}
}
