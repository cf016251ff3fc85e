package identity

import (
	"context"
	"time"

	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/security/jwt"
)

// UserRepository is the application layer's view of the User aggregate
// repository, defined in the domain layer.
type UserRepository interface {
	identity.UserRepository
}

// SessionRepository persists session.Data in PostgreSQL, the system of
// record. Commands read/write through it whenever the cache misses or a
// write must survive a restart of the cache.
type SessionRepository interface {
	session.Repository
}

// SessionCache fronts SessionRepository with Redis for low-latency reads
// and session-binding checks (§4.2). A cache miss is not an error; callers
// fall through to SessionRepository and repopulate the cache.
type SessionCache interface {
	session.Cache
}

// RefreshTokenRepository persists opaque refresh tokens (§4.1). Verification
// is by bcrypt comparison against every unexpired, unrevoked candidate for
// the claimed session, not by equality lookup.
type RefreshTokenRepository interface {
	token.RefreshTokenRepository
}

// EmailVerificationRepository persists one-shot email verification tokens (§4.5).
type EmailVerificationRepository interface {
	token.EmailVerificationRepository
}

// PasswordResetRepository persists one-shot password reset tokens (§4.4).
type PasswordResetRepository interface {
	token.PasswordResetRepository
}

// SecurityConfigRepository holds the singleton global token-rotation state (§5).
type SecurityConfigRepository interface {
	security.Repository
}

// JWTService issues and validates RS256 access tokens. Refresh tokens are
// opaque and are never produced by this interface.
type JWTService interface {
	// GenerateAccessToken mints a short-lived access token carrying the
	// session id and the token version in effect at issuance.
	GenerateAccessToken(userID, email string, roles []string, sessionID string, tokenVersion int) (string, error)

	// ValidateToken verifies signature, issuer, and expiry and returns the claims.
	ValidateToken(tokenString string) (*jwt.Claims, error)

	// ExtractTokenID returns the JWT ID (jti) without requiring the token be
	// otherwise valid, so an expired token can still be blacklisted by id.
	ExtractTokenID(tokenString string) (string, error)

	// GetTokenExpiration returns the token's exp claim.
	GetTokenExpiration(tokenString string) (time.Time, error)
}

// TokenBlacklist tracks access tokens revoked before their natural
// expiration (logout, forced rotation).
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
	Remove(ctx context.Context, tokenID string) error
}

// EventPublisher publishes domain events to the event bus (§4.3). It is
// satisfied directly by *eventbus.Bus; handlers run fail-open and
// concurrently, so Publish never returns an error.
type EventPublisher interface {
	Publish(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext)
}

// PasswordResetMailer delivers the reset-link email carrying the unredacted
// token (§4.4). It is called directly by RequestPasswordResetHandler rather
// than by a generic event-driven handler, because the full token exists
// only in this one request's scope and must never be placed on the event
// bus (see PasswordResetRequestSucceeded).
type PasswordResetMailer interface {
	SendResetEmail(ctx context.Context, userID, email, token string) error
}
