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
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// VerifyEmailCommand represents the intent to confirm control of the email
// address a user registered with (§4.4 Verify email).
type VerifyEmailCommand struct {
	Token     string
	IPAddress string
	UserAgent string
}

func (VerifyEmailCommand) isCommand() {}

// VerifyEmailHandler marks a user's email verified by redeeming a one-shot
// email verification token.
type VerifyEmailHandler struct {
	users         appidentity.UserRepository
	verifications appidentity.EmailVerificationRepository
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewVerifyEmailHandler creates a new VerifyEmailHandler.
func NewVerifyEmailHandler(
	users appidentity.UserRepository,
	verifications appidentity.EmailVerificationRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *VerifyEmailHandler {
	return &VerifyEmailHandler{users: users, verifications: verifications, publisher: publisher, logger: logger}
}

// Handle redeems the token and marks the owning user's email verified.
// Guard order: token exists, not expired, not already used, owning user exists.
func (h *VerifyEmailHandler) Handle(ctx context.Context, cmd VerifyEmailCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewVerifyEmailAttempted(), pub)

	verification, err := h.verifications.FindByToken(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, token.ErrEmailVerificationTokenNotFound) {
			h.publisher.Publish(ctx, events.NewVerifyEmailFailed("token_not_found"), pub)
			return appidentity.ErrTokenNotFound
		}
		return fmt.Errorf("find verification token: %w", err)
	}

	if verification.IsExpired(time.Now().UTC()) {
		h.publisher.Publish(ctx, events.NewVerifyEmailFailed("token_expired"), pub)
		return appidentity.ErrTokenExpired
	}
	if verification.IsUsed() {
		h.publisher.Publish(ctx, events.NewVerifyEmailFailed("token_already_used"), pub)
		return appidentity.ErrTokenAlreadyUsed
	}

	userID, err := identity.ParseUserID(verification.UserID.String())
	if err != nil {
		return fmt.Errorf("parse user id from verification token: %w", err)
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			h.publisher.Publish(ctx, events.NewVerifyEmailFailed("user_not_found"), pub)
			return appidentity.ErrTokenNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	user.MarkVerified()
	if err := h.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	verification.MarkUsed()
	if err := h.verifications.Save(ctx, verification); err != nil {
		return fmt.Errorf("mark verification token used: %w", err)
	}

	for _, event := range user.Events() {
		h.publisher.Publish(ctx, event, pub)
	}
	user.ClearEvents()

	h.publisher.Publish(ctx, events.NewVerifyEmailSucceeded(user.ID().String(), user.Email().String()), pub)

	h.logger.Info().Str("user_id", user.ID().String()).Msg("email verified")

	return nil
}
