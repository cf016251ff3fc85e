package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the source-of-truth persistence contract for sessions (§4.2).
// Implemented against Postgres in infrastructure/persistence/postgres.
type Repository interface {
	Save(ctx context.Context, s *Data) error
	FindByID(ctx context.Context, id uuid.UUID) (*Data, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*Data, error)
	FindByRefreshTokenID(ctx context.Context, refreshTokenID uuid.UUID) (*Data, error)
	CountActiveSessions(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	// RevokeAllForUser bulk-revokes every active session for userID except
	// exceptSessionID (nil means none excepted) and returns the count revoked.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason RevocationReason, exceptSessionID *uuid.UUID) (int, error)
	GetOldestActiveSession(ctx context.Context, userID uuid.UUID) (*Data, error)
	CleanupExpiredSessions(ctx context.Context, before time.Time) (int, error)
}

// Cache is the write-through cache contract over Data (§4.2). The cache is
// authoritative only for reads; every write goes to the Repository first.
// All operations degrade gracefully on backend failure — callers log and
// fall through to the repository rather than propagating the error to HTTP.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*Data, error)
	Set(ctx context.Context, s *Data, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetUserSessionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AddUserSession(ctx context.Context, userID, sessionID uuid.UUID) error
	RemoveUserSession(ctx context.Context, userID, sessionID uuid.UUID) error
	UpdateLastActivity(ctx context.Context, id uuid.UUID, ip string) error
}

// ErrCacheMiss is returned by Cache.Get when the key is absent (not an error
// condition for callers — they fall through to the Repository).
var ErrCacheMiss = cacheMiss{}

type cacheMiss struct{}

func (cacheMiss) Error() string { return "session: cache miss" }
