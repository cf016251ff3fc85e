package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// ConfirmPasswordResetCommand represents the intent to complete a password
// reset using a previously-issued one-shot token (§4.4).
type ConfirmPasswordResetCommand struct {
	Token       string
	NewPassword string
	IPAddress   string
	UserAgent   string
}

func (ConfirmPasswordResetCommand) isCommand() {}

// ConfirmPasswordResetHandler redeems the reset token, stores the new
// password, and revokes every refresh token for the user so the user must
// re-authenticate everywhere.
type ConfirmPasswordResetHandler struct {
	users         appidentity.UserRepository
	resets        appidentity.PasswordResetRepository
	refreshTokens appidentity.RefreshTokenRepository
	sessions      appidentity.SessionRepository
	cache         appidentity.SessionCache
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewConfirmPasswordResetHandler creates a new ConfirmPasswordResetHandler.
func NewConfirmPasswordResetHandler(
	users appidentity.UserRepository,
	resets appidentity.PasswordResetRepository,
	refreshTokens appidentity.RefreshTokenRepository,
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *ConfirmPasswordResetHandler {
	return &ConfirmPasswordResetHandler{
		users:         users,
		resets:        resets,
		refreshTokens: refreshTokens,
		sessions:      sessions,
		cache:         cache,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle redeems the token. Guard order: token exists, not expired, not
// already used, owning user exists.
func (h *ConfirmPasswordResetHandler) Handle(ctx context.Context, cmd ConfirmPasswordResetCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewPasswordResetConfirmAttempted(), pub)

	reset, err := h.resets.FindByToken(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, token.ErrPasswordResetTokenNotFound) {
			h.publisher.Publish(ctx, events.NewPasswordResetConfirmFailed("token_not_found"), pub)
			return appidentity.ErrTokenNotFound
		}
		return fmt.Errorf("find password reset token: %w", err)
	}

	if reset.IsExpired(time.Now().UTC()) {
		h.publisher.Publish(ctx, events.NewPasswordResetConfirmFailed("token_expired"), pub)
		return appidentity.ErrTokenExpired
	}
	if reset.IsUsed() {
		h.publisher.Publish(ctx, events.NewPasswordResetConfirmFailed("token_already_used"), pub)
		return appidentity.ErrTokenAlreadyUsed
	}

	userID, err := identity.ParseUserID(reset.UserID.String())
	if err != nil {
		return fmt.Errorf("parse user id from reset token: %w", err)
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			h.publisher.Publish(ctx, events.NewPasswordResetConfirmFailed("user_not_found"), pub)
			return appidentity.ErrTokenNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	newHash, err := identity.NewPasswordHash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	if err := user.ChangePassword(newHash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := h.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	reset.MarkUsed()
	if err := h.resets.Save(ctx, reset); err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}

	if _, err := h.refreshTokens.DeleteAllForUser(ctx, reset.UserID); err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to revoke refresh tokens after password reset")
	}
	if _, err := h.sessions.RevokeAllForUser(ctx, reset.UserID, session.ReasonPasswordResetConfirm, nil); err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to revoke sessions after password reset")
	}
	if err := h.cache.DeleteAllForUser(ctx, reset.UserID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID().String()).Msg("failed to clear cached sessions after password reset")
	}

	for _, event := range user.Events() {
		h.publisher.Publish(ctx, event, pub)
	}
	user.ClearEvents()

	h.publisher.Publish(ctx, events.NewPasswordResetConfirmSucceeded(user.ID().String(), user.Email().String()), pub)

	h.logger.Info().Str("user_id", user.ID().String()).Msg("password reset confirmed")

	return nil
}
