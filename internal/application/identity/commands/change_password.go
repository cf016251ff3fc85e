package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// ChangePasswordCommand represents the intent of an authenticated user to
// change their own password (§4.4).
type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	IPAddress       string
	UserAgent       string
}

func (ChangePasswordCommand) isCommand() {}

// ChangePasswordHandler verifies the current password, stores the new one,
// and publishes ChangePasswordSucceeded. A downstream session event handler
// revokes every session for the user in response to that event; this
// handler does not revoke sessions itself.
type ChangePasswordHandler struct {
	users     appidentity.UserRepository
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewChangePasswordHandler creates a new ChangePasswordHandler.
func NewChangePasswordHandler(
	users appidentity.UserRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *ChangePasswordHandler {
	return &ChangePasswordHandler{users: users, publisher: publisher, logger: logger}
}

// Handle verifies the current password and stores the new one.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewChangePasswordAttempted(cmd.UserID), pub)

	userID, err := identity.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := user.VerifyPassword(cmd.CurrentPassword); err != nil {
		h.publisher.Publish(ctx, events.NewChangePasswordFailed(cmd.UserID, "invalid_credentials"), pub)
		return appidentity.ErrInvalidCredentials
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

	for _, event := range user.Events() {
		h.publisher.Publish(ctx, event, pub)
	}
	user.ClearEvents()

	h.publisher.Publish(ctx, events.NewChangePasswordSucceeded(user.ID().String(), user.Email().String()), pub)

	h.logger.Info().Str("user_id", user.ID().String()).Msg("password changed")

	return nil
}
