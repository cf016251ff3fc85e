// Package security implements the process-wide SecurityConfig singleton that
// drives global token-version rotation (§3, §4.1, §4.4).
package security

import (
	"context"
	"time"
)

// DefaultGracePeriod is used when no explicit grace period has been configured.
const DefaultGracePeriod = 15 * time.Minute

// Config is the singleton row governing global token rotation.
//
// Invariant: GlobalMinTokenVersion is monotonically non-decreasing.
type Config struct {
	GlobalMinTokenVersion int
	LastRotationAt        time.Time
	GracePeriodSeconds    int
	Reason                string
}

// IsWithinGracePeriod reports whether now is still inside the grace window
// following the last rotation.
func (c *Config) IsWithinGracePeriod(now time.Time) bool {
	if c.GracePeriodSeconds <= 0 {
		return false
	}
	grace := time.Duration(c.GracePeriodSeconds) * time.Second
	return !now.After(c.LastRotationAt.Add(grace))
}

// AdvanceGlobalVersion increments GlobalMinTokenVersion and records the
// rotation reason and timestamp. Returns the previous and new version.
func (c *Config) AdvanceGlobalVersion(reason string, now time.Time) (previous, next int) {
	previous = c.GlobalMinTokenVersion
	c.GlobalMinTokenVersion++
	c.LastRotationAt = now
	c.Reason = reason
	return previous, c.GlobalMinTokenVersion
}

// Repository persists the single Config row with serialised updates
// (§5 "SecurityConfig updates are serialised through update_global_version").
type Repository interface {
	Get(ctx context.Context) (*Config, error)
	// UpdateGlobalVersion atomically loads, mutates via fn, and persists the
	// singleton row, guaranteeing no two concurrent rotations interleave.
	UpdateGlobalVersion(ctx context.Context, fn func(*Config) error) (*Config, error)
}
