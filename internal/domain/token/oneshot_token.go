package token

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EmailVerificationTTL is how long an email-verification token remains valid.
	EmailVerificationTTL = 24 * time.Hour
	// PasswordResetTTL is how long a password-reset token remains valid.
	PasswordResetTTL = 15 * time.Minute
)

// EmailVerificationToken is a single-use hex token proving control of an email
// address (§3). Stored plain — it is already unguessable (32 random bytes).
type EmailVerificationToken struct {
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// NewEmailVerificationToken mints a fresh verification token for userID.
func NewEmailVerificationToken(userID uuid.UUID) (*EmailVerificationToken, error) {
	plain, err := GenerateHex()
	if err != nil {
		return nil, err
	}
	return &EmailVerificationToken{
		UserID:    userID,
		Token:     plain,
		ExpiresAt: time.Now().UTC().Add(EmailVerificationTTL),
	}, nil
}

// IsExpired reports whether the token has passed its expiry as of now.
func (t *EmailVerificationToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsUsed reports whether the token has already been consumed.
func (t *EmailVerificationToken) IsUsed() bool {
	return t.UsedAt != nil
}

// MarkUsed consumes the token.
func (t *EmailVerificationToken) MarkUsed() {
	now := time.Now().UTC()
	t.UsedAt = &now
}

// PasswordResetToken is a single-use hex token authorizing a password reset (§3).
type PasswordResetToken struct {
	UserID    uuid.UUID
	Token     string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// NewPasswordResetToken mints a fresh reset token for userID, recording the
// requesting IP/UA for audit enrichment.
func NewPasswordResetToken(userID uuid.UUID, ip, ua string) (*PasswordResetToken, error) {
	plain, err := GenerateHex()
	if err != nil {
		return nil, err
	}
	return &PasswordResetToken{
		UserID:    userID,
		Token:     plain,
		IPAddress: ip,
		UserAgent: ua,
		ExpiresAt: time.Now().UTC().Add(PasswordResetTTL),
	}, nil
}

// IsExpired reports whether the token has passed its expiry as of now.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsUsed reports whether the token has already been consumed.
func (t *PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}

// MarkUsed consumes the token.
func (t *PasswordResetToken) MarkUsed() {
	now := time.Now().UTC()
	t.UsedAt = &now
}
