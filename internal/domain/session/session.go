package session

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the session lifetime used when no explicit expiry is given.
const DefaultTTL = 30 * 24 * time.Hour

// Data is one authenticated session on one device for one user.
//
// Invariants: ExpiresAt must be after CreatedAt; once Revoked is true every
// field is immutable except for reads; a user's active (non-revoked,
// non-expired) session count must not exceed their tier's cap — that cap is
// enforced by the application workflow, not by this type.
type Data struct {
	ID                       uuid.UUID
	UserID                   uuid.UUID
	DeviceInfo               string
	UserAgent                string
	IPAddress                string
	LastIPAddress            string
	Location                 string
	CreatedAt                time.Time
	LastActivityAt           time.Time
	ExpiresAt                time.Time
	Revoked                  bool
	RevokedAt                *time.Time
	RevokedReason            RevocationReason
	Trusted                  bool
	RefreshTokenID           *uuid.UUID
	SuspiciousActivityCount  int
	ProviderAccessToken      string
	ProviderRefreshToken     string
	ProviderTokenExpiresAt   *time.Time
}

// New constructs a fresh, non-revoked session. expiresAt defaults to
// now+DefaultTTL when zero.
func New(userID uuid.UUID, deviceInfo, userAgent, ipAddress, location string, expiresAt time.Time) (*Data, error) {
	now := time.Now().UTC()
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultTTL)
	}
	if !expiresAt.After(now) {
		return nil, ErrInvalidExpiry
	}

	return &Data{
		ID:             uuid.New(),
		UserID:         userID,
		DeviceInfo:     deviceInfo,
		UserAgent:      userAgent,
		IPAddress:      ipAddress,
		LastIPAddress:  ipAddress,
		Location:       location,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}, nil
}

// IsActive returns true iff the session is neither revoked nor expired as of now.
func (d *Data) IsActive(now time.Time) bool {
	return !d.Revoked && d.ExpiresAt.After(now)
}

// Revoke marks the session revoked with the given reason. Idempotent calls
// (already revoked) are rejected by the caller via ErrSessionAlreadyRevoked,
// not by this method, so workflows can emit the correct FAILED event.
func (d *Data) Revoke(reason RevocationReason) {
	now := time.Now().UTC()
	d.Revoked = true
	d.RevokedAt = &now
	d.RevokedReason = reason
}

// TouchActivity updates LastActivityAt and optionally LastIPAddress.
func (d *Data) TouchActivity(ip string) {
	d.LastActivityAt = time.Now().UTC()
	if ip != "" {
		d.LastIPAddress = ip
	}
}

// BindRefreshToken associates the session with the given refresh token record id.
func (d *Data) BindRefreshToken(id uuid.UUID) {
	d.RefreshTokenID = &id
}
