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

// TriggerUserRotationCommand represents an admin's intent to invalidate
// every refresh token issued to a single user below a new per-user minimum
// token version (§5).
type TriggerUserRotationCommand struct {
	AdminID   string
	UserID    string
	Reason    string
	IPAddress string
	UserAgent string
}

func (TriggerUserRotationCommand) isCommand() {}

// TriggerUserRotationHandler advances a single user's min_token_version.
type TriggerUserRotationHandler struct {
	users     appidentity.UserRepository
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewTriggerUserRotationHandler creates a new TriggerUserRotationHandler.
func NewTriggerUserRotationHandler(
	users appidentity.UserRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *TriggerUserRotationHandler {
	return &TriggerUserRotationHandler{users: users, publisher: publisher, logger: logger}
}

// Handle advances the target user's min_token_version by one.
func (h *TriggerUserRotationHandler) Handle(ctx context.Context, cmd TriggerUserRotationCommand) error {
	userID, err := identity.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	previous := user.MinTokenVersion()
	next := user.AdvanceMinTokenVersion()

	if err := h.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	for _, event := range user.Events() {
		h.publisher.Publish(ctx, event, &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent})
	}
	user.ClearEvents()

	h.publisher.Publish(ctx, events.NewUserRotationTriggered(cmd.AdminID, cmd.UserID, previous, next, cmd.Reason),
		&eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent})

	h.logger.Info().
		Str("admin_id", cmd.AdminID).
		Str("user_id", cmd.UserID).
		Int("previous_version", previous).
		Int("new_version", next).
		Msg("user token rotation triggered")

	return nil
}
