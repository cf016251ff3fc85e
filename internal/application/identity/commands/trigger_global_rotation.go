package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// TriggerGlobalRotationCommand represents an admin's intent to invalidate
// every refresh token below the next global_min_token_version (§5).
type TriggerGlobalRotationCommand struct {
	AdminID   string
	Reason    string
	IPAddress string
	UserAgent string
}

func (TriggerGlobalRotationCommand) isCommand() {}

// TriggerGlobalRotationHandler advances the singleton SecurityConfig's
// global_min_token_version under a serialised update.
type TriggerGlobalRotationHandler struct {
	security  appidentity.SecurityConfigRepository
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewTriggerGlobalRotationHandler creates a new TriggerGlobalRotationHandler.
func NewTriggerGlobalRotationHandler(
	security appidentity.SecurityConfigRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *TriggerGlobalRotationHandler {
	return &TriggerGlobalRotationHandler{security: security, publisher: publisher, logger: logger}
}

// Handle advances global_min_token_version by one and records the reason.
func (h *TriggerGlobalRotationHandler) Handle(ctx context.Context, cmd TriggerGlobalRotationCommand) (*dto.RotationResultDTO, error) {
	var previous, next int
	updated, err := h.security.UpdateGlobalVersion(ctx, func(cfg *security.Config) error {
		if cfg.GracePeriodSeconds == 0 {
			cfg.GracePeriodSeconds = int(security.DefaultGracePeriod.Seconds())
		}
		previous, next = cfg.AdvanceGlobalVersion(cmd.Reason, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("advance global token version: %w", err)
	}

	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewGlobalRotationTriggered(cmd.AdminID, previous, next, cmd.Reason, updated.GracePeriodSeconds), pub)

	h.logger.Info().
		Str("admin_id", cmd.AdminID).
		Int("previous_version", previous).
		Int("new_version", next).
		Msg("global token rotation triggered")

	return &dto.RotationResultDTO{
		PreviousVersion:    previous,
		NewVersion:         next,
		GracePeriodSeconds: updated.GracePeriodSeconds,
	}, nil
}
