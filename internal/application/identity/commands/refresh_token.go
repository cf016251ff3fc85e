package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// RefreshTokenCommand represents the intent to exchange a refresh token for
// a fresh access/refresh pair (§4.1, §4.4 Refresh).
type RefreshTokenCommand struct {
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

func (RefreshTokenCommand) isCommand() {}

// RefreshTokenHandler verifies the presented refresh token, applies the
// two-level rotation check, and rotates it: the old record is deleted and a
// new pair is issued under the current global_min_token_version, preserving
// the original session id.
type RefreshTokenHandler struct {
	users         appidentity.UserRepository
	refreshTokens appidentity.RefreshTokenRepository
	sessions      appidentity.SessionRepository
	cache         appidentity.SessionCache
	security      appidentity.SecurityConfigRepository
	jwt           appidentity.JWTService
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewRefreshTokenHandler creates a new RefreshTokenHandler.
func NewRefreshTokenHandler(
	users appidentity.UserRepository,
	refreshTokens appidentity.RefreshTokenRepository,
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	security appidentity.SecurityConfigRepository,
	jwt appidentity.JWTService,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *RefreshTokenHandler {
	return &RefreshTokenHandler{
		users:         users,
		refreshTokens: refreshTokens,
		sessions:      sessions,
		cache:         cache,
		security:      security,
		jwt:           jwt,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle rotates a refresh token into a fresh access/refresh pair.
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*dto.TokenPairDTO, error) {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewRefreshAttempted(), pub)

	record, err := h.refreshTokens.FindByVerification(ctx, cmd.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrRefreshTokenNotFound) {
			h.publisher.Publish(ctx, events.NewRefreshFailed("token_invalid"), pub)
			return nil, appidentity.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	now := time.Now().UTC()
	if record.IsRevoked() {
		h.publisher.Publish(ctx, events.NewRefreshFailed("token_revoked"), pub)
		return nil, appidentity.ErrTokenRevoked
	}
	if record.IsExpired(now) {
		h.publisher.Publish(ctx, events.NewRefreshFailed("token_expired"), pub)
		return nil, appidentity.ErrTokenExpired
	}

	userID, err := identity.ParseUserID(record.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("parse user id from refresh token: %w", err)
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.CanLogin() {
		h.publisher.Publish(ctx, events.NewRefreshFailed("user_not_active"), pub)
		return nil, appidentity.ErrAccountSuspended
	}

	secConfig, err := h.security.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}

	accepted, rejectionReason := record.IsVersionAccepted(
		secConfig.GlobalMinTokenVersion,
		user.MinTokenVersion(),
		secConfig.IsWithinGracePeriod(now),
	)
	if !accepted {
		h.publisher.Publish(ctx, events.NewTokenRejectedDueToRotation(user.ID().String(), string(rejectionReason)), pub)
		h.publisher.Publish(ctx, events.NewRefreshFailed("token_version_rejected"), pub)
		return nil, appidentity.ErrTokenVersionRejected
	}

	sess, err := h.sessions.FindByID(ctx, record.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := h.refreshTokens.Delete(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("delete rotated refresh token: %w", err)
	}

	tokenVersion := secConfig.GlobalMinTokenVersion
	if user.MinTokenVersion() > tokenVersion {
		tokenVersion = user.MinTokenVersion()
	}

	accessToken, err := h.jwt.GenerateAccessToken(user.ID().String(), user.Email().String(), []string{user.Role().String()}, sess.ID.String(), tokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	expiresAt, err := h.jwt.GetTokenExpiration(accessToken)
	if err != nil {
		return nil, fmt.Errorf("read access token expiration: %w", err)
	}

	plainRefresh, newRecord, err := token.NewRefreshToken(record.UserID, sess.ID, tokenVersion, secConfig.GlobalMinTokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := h.refreshTokens.Save(ctx, newRecord); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	sess.BindRefreshToken(newRecord.ID)
	sess.TouchActivity(cmd.IPAddress)
	if err := h.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if err := h.cache.Set(ctx, sess, time.Until(sess.ExpiresAt)); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("failed to refresh cached session")
	}

	h.publisher.Publish(ctx, events.NewRefreshSucceeded(user.ID().String(), sess.ID.String()), pub)

	h.logger.Info().
		Str("user_id", user.ID().String()).
		Str("session_id", sess.ID.String()).
		Msg("refresh token rotated")

	pair := dto.NewTokenPairDTO(accessToken, plainRefresh, expiresAt)
	return &pair, nil
}
