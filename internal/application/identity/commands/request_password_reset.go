package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// maxPasswordResetsPerWindow caps how many reset tokens may be issued to a
// single user within passwordResetRateLimitWindow (§4.4).
const maxPasswordResetsPerWindow = 3

// passwordResetRateLimitWindow is the rolling window the rate limit applies over.
const passwordResetRateLimitWindow = 60 * time.Minute

// RequestPasswordResetCommand represents the intent to start a password
// reset. The external response is always a generic success (§4.4).
type RequestPasswordResetCommand struct {
	Email     string
	IPAddress string
	UserAgent string
}

func (RequestPasswordResetCommand) isCommand() {}

// RequestPasswordResetHandler never reports failure externally; internal
// reasons (user_not_found, email_not_verified, rate_limited) only reach the
// PasswordResetRequestFailed event.
type RequestPasswordResetHandler struct {
	users     appidentity.UserRepository
	resets    appidentity.PasswordResetRepository
	publisher appidentity.EventPublisher
	mailer    appidentity.PasswordResetMailer
	logger    *zerolog.Logger
}

// NewRequestPasswordResetHandler creates a new RequestPasswordResetHandler.
func NewRequestPasswordResetHandler(
	users appidentity.UserRepository,
	resets appidentity.PasswordResetRepository,
	publisher appidentity.EventPublisher,
	mailer appidentity.PasswordResetMailer,
	logger *zerolog.Logger,
) *RequestPasswordResetHandler {
	return &RequestPasswordResetHandler{users: users, resets: resets, publisher: publisher, mailer: mailer, logger: logger}
}

// Handle always returns nil to the caller.
func (h *RequestPasswordResetHandler) Handle(ctx context.Context, cmd RequestPasswordResetCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewPasswordResetRequested(cmd.Email), pub)

	email, err := identity.NewEmail(cmd.Email)
	if err != nil {
		h.publisher.Publish(ctx, events.NewPasswordResetRequestFailed(cmd.Email, "user_not_found"), pub)
		return nil
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			h.logger.Error().Err(err).Msg("error looking up user during password reset request")
		}
		h.publisher.Publish(ctx, events.NewPasswordResetRequestFailed(cmd.Email, "user_not_found"), pub)
		return nil
	}

	if !user.IsVerified() {
		h.publisher.Publish(ctx, events.NewPasswordResetRequestFailed(cmd.Email, "email_not_verified"), pub)
		return nil
	}

	userUUID, err := uuid.Parse(user.ID().String())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to parse user id during password reset request")
		return nil
	}

	since := time.Now().UTC().Add(-passwordResetRateLimitWindow)
	recent, err := h.resets.CountRecentForUser(ctx, userUUID, since)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to count recent password resets")
		return nil
	}
	if recent >= maxPasswordResetsPerWindow {
		h.publisher.Publish(ctx, events.NewPasswordResetRequestFailed(cmd.Email, "rate_limited"), pub)
		return nil
	}

	reset, err := token.NewPasswordResetToken(userUUID, cmd.IPAddress, cmd.UserAgent)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate password reset token")
		return nil
	}
	if err := h.resets.Save(ctx, reset); err != nil {
		h.logger.Error().Err(err).Msg("failed to save password reset token")
		return nil
	}

	truncated := reset.Token
	if len(truncated) > 8 {
		truncated = truncated[:8]
	}
	h.publisher.Publish(ctx, events.NewPasswordResetRequestSucceeded(user.ID().String(), email.String(), truncated), pub)

	if err := h.mailer.SendResetEmail(ctx, user.ID().String(), email.String(), reset.Token); err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID().String()).Msg("failed to enqueue password reset email")
	}

	h.logger.Info().Str("user_id", user.ID().String()).Msg("password reset requested")

	return nil
}
