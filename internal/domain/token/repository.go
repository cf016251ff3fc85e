package token

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenRepository is the durable store for RefreshTokenData (§3, §4.1).
//
// FindByVerification implements the `find_by_token_verification` contract:
// because bcrypt hashes are salted, a presented plaintext cannot be
// hash-indexed, so the implementation scans non-revoked, non-expired
// candidates and applies VerifyOpaque per candidate. This is an accepted
// O(N) cost for the MVP (spec.md §9 Open Question — no deterministic lookup
// prefix is added).
type RefreshTokenRepository interface {
	Save(ctx context.Context, r *RefreshTokenData) error
	FindByVerification(ctx context.Context, plain string) (*RefreshTokenData, error)
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*RefreshTokenData, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteForSession(ctx context.Context, sessionID uuid.UUID) error
}

// EmailVerificationRepository persists EmailVerificationToken records.
type EmailVerificationRepository interface {
	Save(ctx context.Context, t *EmailVerificationToken) error
	FindByToken(ctx context.Context, plain string) (*EmailVerificationToken, error)
}

// PasswordResetRepository persists PasswordResetToken records.
type PasswordResetRepository interface {
	Save(ctx context.Context, t *PasswordResetToken) error
	FindByToken(ctx context.Context, plain string) (*PasswordResetToken, error)
	// CountRecentForUser returns how many reset tokens were issued to userID
	// since the given time, for the §4.4 rate-limit guard (≤3 per rolling 60 min).
	CountRecentForUser(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}
