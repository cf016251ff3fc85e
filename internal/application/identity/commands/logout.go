package commands

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// LogoutCommand represents the intent to end a session. The caller always
// observes success (§4.4); internal failure reasons only reach the audit
// trail via LogoutFailed.
type LogoutCommand struct {
	UserID       string
	RefreshToken string
	AccessToken  string
	IPAddress    string
	UserAgent    string
}

// Implement Command interface from types.go
func (LogoutCommand) isCommand() {}

// LogoutHandler revokes the refresh token's bound session and blacklists the
// presented access token. It never returns an error for a business-logic
// failure; every internal reason is recorded as a LogoutFailed event instead.
type LogoutHandler struct {
	refreshTokens appidentity.RefreshTokenRepository
	sessions      appidentity.SessionRepository
	cache         appidentity.SessionCache
	jwt           appidentity.JWTService
	blacklist     appidentity.TokenBlacklist
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewLogoutHandler creates a new LogoutHandler with the given dependencies.
func NewLogoutHandler(
	refreshTokens appidentity.RefreshTokenRepository,
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	jwt appidentity.JWTService,
	blacklist appidentity.TokenBlacklist,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *LogoutHandler {
	return &LogoutHandler{
		refreshTokens: refreshTokens,
		sessions:      sessions,
		cache:         cache,
		jwt:           jwt,
		blacklist:     blacklist,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle always returns nil to the caller (§4.4). Internal reasons for not
// revoking anything are recorded on LogoutFailed rather than propagated.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewLogoutAttempted(cmd.UserID), pub)

	record, err := h.refreshTokens.FindByVerification(ctx, cmd.RefreshToken)
	if err != nil {
		if !errors.Is(err, token.ErrRefreshTokenNotFound) {
			h.logger.Warn().Err(err).Msg("error looking up refresh token during logout")
		}
		h.publisher.Publish(ctx, events.NewLogoutFailed(cmd.UserID, "token_not_found"), pub)
		h.blacklistAccessToken(ctx, cmd.AccessToken)
		return nil
	}

	if record.UserID.String() != cmd.UserID {
		h.publisher.Publish(ctx, events.NewLogoutFailed(cmd.UserID, "token_user_mismatch"), pub)
		h.blacklistAccessToken(ctx, cmd.AccessToken)
		return nil
	}

	if record.IsRevoked() {
		h.publisher.Publish(ctx, events.NewLogoutFailed(cmd.UserID, "token_already_revoked"), pub)
		h.blacklistAccessToken(ctx, cmd.AccessToken)
		return nil
	}

	if err := h.refreshTokens.DeleteForSession(ctx, record.SessionID); err != nil {
		h.logger.Error().Err(err).Str("session_id", record.SessionID.String()).Msg("failed to delete refresh tokens during logout")
	}

	if sess, err := h.sessions.FindByID(ctx, record.SessionID); err == nil {
		sess.Revoke(session.ReasonUserLogout)
		if err := h.sessions.Save(ctx, sess); err != nil {
			h.logger.Error().Err(err).Str("session_id", record.SessionID.String()).Msg("failed to persist revoked session during logout")
		}
	}
	if err := h.cache.Delete(ctx, record.SessionID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", record.SessionID.String()).Msg("failed to evict session from cache during logout")
	}
	if err := h.cache.RemoveUserSession(ctx, record.UserID, record.SessionID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", record.SessionID.String()).Msg("failed to remove session from user index during logout")
	}

	h.blacklistAccessToken(ctx, cmd.AccessToken)

	h.publisher.Publish(ctx, events.NewLogoutSucceeded(cmd.UserID, record.SessionID.String()), pub)

	h.logger.Info().
		Str("user_id", cmd.UserID).
		Str("session_id", record.SessionID.String()).
		Msg("user logged out")

	return nil
}

// blacklistAccessToken is best-effort: an extraction or blacklist failure
// must not block logout, which always succeeds from the caller's view.
func (h *LogoutHandler) blacklistAccessToken(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	tokenID, err := h.jwt.ExtractTokenID(accessToken)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to extract token id during logout")
		return
	}
	expiresAt, err := h.jwt.GetTokenExpiration(accessToken)
	if err != nil {
		expiresAt = time.Now().UTC().Add(15 * time.Minute)
	}
	if err := h.blacklist.Add(ctx, tokenID, expiresAt); err != nil {
		h.logger.Warn().Err(err).Str("token_id", tokenID).Msg("failed to blacklist access token during logout")
	}
}
