package eventhandlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// AuthEmailEnqueuer is the subset of *email.Mailer this handler drives. It
// excludes SendResetEmail: the reset token only ever exists in
// RequestPasswordResetHandler's scope and is never placed on the event bus
// (see events.PasswordResetRequestSucceeded), so that email is enqueued
// directly by the command handler, not by this generic subscriber.
type AuthEmailEnqueuer interface {
	SendWelcomeEmail(ctx context.Context, userID, email, verificationToken string) error
	SendPasswordChangedEmail(ctx context.Context, userID, email string) error
	SendPasswordResetConfirmedEmail(ctx context.Context, userID, email string) error
}

// EmailHandler enqueues the transactional email for every event whose
// registry entry sets RequiresEmail, except the password-reset-request
// event (handled out of band for the reason AuthEmailEnqueuer documents).
type EmailHandler struct {
	mailer AuthEmailEnqueuer
	logger zerolog.Logger
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(mailer AuthEmailEnqueuer, logger zerolog.Logger) *EmailHandler {
	return &EmailHandler{mailer: mailer, logger: logger}
}

func (h *EmailHandler) Name() string { return "email" }

func (h *EmailHandler) Handle(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) error {
	entry, ok := events.LookupEvent(evt)
	if !ok || !entry.RequiresEmail {
		return nil
	}

	var err error
	switch e := evt.(type) {
	case events.RegisterSucceeded:
		err = h.mailer.SendWelcomeEmail(ctx, e.UserID, e.Email, e.VerificationToken)
	case events.ChangePasswordSucceeded:
		err = h.mailer.SendPasswordChangedEmail(ctx, e.UserID, e.Email)
	case events.PasswordResetConfirmSucceeded:
		err = h.mailer.SendPasswordResetConfirmedEmail(ctx, e.UserID, e.Email)
	case events.PasswordResetRequestSucceeded:
		// Handled directly by RequestPasswordResetHandler; see AuthEmailEnqueuer.
		return nil
	default:
		h.logger.Warn().Str("event_type", evt.EventType()).Msg("event requires email but has no handler case")
		return nil
	}

	if err != nil {
		h.logger.Error().Err(err).Str("event_type", evt.EventType()).Msg("failed to enqueue email")
		return err
	}

	return nil
}
