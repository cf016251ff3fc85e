package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/token"
)

// GenerateAuthTokensCommand represents the intent to mint an access/refresh
// token pair bound to an existing session (§4.1).
type GenerateAuthTokensCommand struct {
	UserID               uuid.UUID
	Email                string
	Roles                []string
	Session              *session.Data
	GlobalMinTokenVersion int
	UserMinTokenVersion   int
}

func (GenerateAuthTokensCommand) isCommand() {}

// GenerateAuthTokensHandler mints a JWT access token and an opaque refresh
// token, binds the refresh token to the session, and persists the refresh
// token record.
type GenerateAuthTokensHandler struct {
	jwt           appidentity.JWTService
	refreshTokens appidentity.RefreshTokenRepository
	sessions      appidentity.SessionRepository
	cache         appidentity.SessionCache
	logger        *zerolog.Logger
}

// NewGenerateAuthTokensHandler creates a new GenerateAuthTokensHandler.
func NewGenerateAuthTokensHandler(
	jwt appidentity.JWTService,
	refreshTokens appidentity.RefreshTokenRepository,
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	logger *zerolog.Logger,
) *GenerateAuthTokensHandler {
	return &GenerateAuthTokensHandler{jwt: jwt, refreshTokens: refreshTokens, sessions: sessions, cache: cache, logger: logger}
}

// Handle mints the token pair. The token version carried by the refresh
// token and the access token is max(global, user) at issuance time, so a
// freshly-issued token always clears the rotation check until the next rotation.
func (h *GenerateAuthTokensHandler) Handle(ctx context.Context, cmd GenerateAuthTokensCommand) (*dto.TokenPairDTO, error) {
	tokenVersion := cmd.GlobalMinTokenVersion
	if cmd.UserMinTokenVersion > tokenVersion {
		tokenVersion = cmd.UserMinTokenVersion
	}

	sessionID := cmd.Session.ID.String()

	accessToken, err := h.jwt.GenerateAccessToken(cmd.UserID.String(), cmd.Email, cmd.Roles, sessionID, tokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	expiresAt, err := h.jwt.GetTokenExpiration(accessToken)
	if err != nil {
		return nil, fmt.Errorf("read access token expiration: %w", err)
	}

	plainRefresh, refreshRecord, err := token.NewRefreshToken(cmd.UserID, cmd.Session.ID, tokenVersion, cmd.GlobalMinTokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := h.refreshTokens.Save(ctx, refreshRecord); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	cmd.Session.BindRefreshToken(refreshRecord.ID)
	if err := h.sessions.Save(ctx, cmd.Session); err != nil {
		return nil, fmt.Errorf("bind refresh token to session: %w", err)
	}
	if err := h.cache.Set(ctx, cmd.Session, session.DefaultTTL); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh cached session after token issuance")
	}

	pair := dto.NewTokenPairDTO(accessToken, plainRefresh, expiresAt)
	return &pair, nil
}
