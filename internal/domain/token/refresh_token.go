package token

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRefreshTTL is the lifetime of a freshly issued refresh token.
const DefaultRefreshTTL = 30 * 24 * time.Hour

// RefreshTokenData is the at-rest record of an opaque refresh token (§3).
//
// Invariants: TokenHash is non-reversible (bcrypt); each refresh rotation
// deletes this record and inserts a new one (single-use); a token is valid
// iff not expired, not revoked, and its TokenVersion clears the two-level
// rotation check (see IsVersionAccepted).
type RefreshTokenData struct {
	ID                      uuid.UUID
	UserID                  uuid.UUID
	TokenHash               string
	SessionID               uuid.UUID
	ExpiresAt               time.Time
	RevokedAt               *time.Time
	TokenVersion            int
	GlobalVersionAtIssuance int
	CreatedAt               time.Time
}

// NewRefreshToken mints a fresh opaque refresh token plus its at-rest record.
// The caller persists the record and returns plain to the client exactly once.
func NewRefreshToken(userID, sessionID uuid.UUID, tokenVersion, globalVersionAtIssuance int) (plain string, record *RefreshTokenData, err error) {
	plain, hash, err := GenerateOpaque()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	record = &RefreshTokenData{
		ID:                      uuid.New(),
		UserID:                  userID,
		TokenHash:               hash,
		SessionID:               sessionID,
		ExpiresAt:               now.Add(DefaultRefreshTTL),
		TokenVersion:            tokenVersion,
		GlobalVersionAtIssuance: globalVersionAtIssuance,
		CreatedAt:               now,
	}
	return plain, record, nil
}

// IsExpired reports whether the token has passed its expiry as of now.
func (r *RefreshTokenData) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// IsRevoked reports whether the token has been revoked.
func (r *RefreshTokenData) IsRevoked() bool {
	return r.RevokedAt != nil
}

// Revoke marks the token revoked as of now.
func (r *RefreshTokenData) Revoke() {
	now := time.Now().UTC()
	r.RevokedAt = &now
}

// RejectionReason distinguishes why the two-level rotation check failed.
type RejectionReason string

const (
	RejectionGlobalRotation RejectionReason = "global_rotation"
	RejectionUserRotation   RejectionReason = "user_rotation"
)

// IsVersionAccepted applies the two-level rotation check of §4.1:
//
//	required = max(globalMinVersion, userMinVersion)
//	accept if r.TokenVersion >= required
//	accept if withinGrace AND r.GlobalVersionAtIssuance >= required-1
//	otherwise reject, with a reason identifying which level rejected it.
func (r *RefreshTokenData) IsVersionAccepted(globalMinVersion, userMinVersion int, withinGrace bool) (bool, RejectionReason) {
	required := globalMinVersion
	if userMinVersion > required {
		required = userMinVersion
	}

	if r.TokenVersion >= required {
		return true, ""
	}
	if withinGrace && r.GlobalVersionAtIssuance >= required-1 {
		return true, ""
	}

	if r.TokenVersion < userMinVersion {
		return false, RejectionUserRotation
	}
	return false, RejectionGlobalRotation
}
