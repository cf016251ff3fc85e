package eventhandlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// sessionRevocationReasons maps an event type with RequiresSession set to
// the reason every other session for that user should be revoked.
// identity.confirm_password_reset.succeeded is deliberately absent:
// ConfirmPasswordResetHandler already revokes inline, because it must
// finish before the command returns, not asynchronously on the bus.
var sessionRevocationReasons = map[string]session.RevocationReason{
	"identity.change_password.succeeded": session.ReasonPasswordChanged,
}

// SessionHandler revokes every other session for a user in response to an
// event whose registry entry sets RequiresSession, using AggregateID() as
// the user id.
type SessionHandler struct {
	sessions session.Repository
	cache    session.Cache
	logger   zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions session.Repository, cache session.Cache, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, cache: cache, logger: logger}
}

func (h *SessionHandler) Name() string { return "session" }

func (h *SessionHandler) Handle(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) error {
	entry, ok := events.LookupEvent(evt)
	if !ok || !entry.RequiresSession {
		return nil
	}

	reason, ok := sessionRevocationReasons[evt.EventType()]
	if !ok {
		return nil
	}

	userID, err := uuid.Parse(evt.AggregateID())
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", evt.EventType()).Msg("session handler: malformed aggregate id")
		return err
	}

	if _, err := h.sessions.RevokeAllForUser(ctx, userID, reason, nil); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to revoke sessions for event")
		return err
	}
	if err := h.cache.DeleteAllForUser(ctx, userID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cached sessions for event")
	}

	return nil
}
