package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// RevokeSessionCommand represents the intent to revoke a single session
// (§4.2 "Revoke single session").
type RevokeSessionCommand struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Reason    session.RevocationReason
	IPAddress string
	UserAgent string
}

func (RevokeSessionCommand) isCommand() {}

// RevokeSessionHandler revokes one session owned by the caller, emitting
// the attempted/failed/succeeded event triptych per §4.2.
type RevokeSessionHandler struct {
	sessions  appidentity.SessionRepository
	cache     appidentity.SessionCache
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewRevokeSessionHandler creates a new RevokeSessionHandler.
func NewRevokeSessionHandler(
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *RevokeSessionHandler {
	return &RevokeSessionHandler{sessions: sessions, cache: cache, publisher: publisher, logger: logger}
}

// Handle loads the session, validates ownership and revocation state, then
// mutates and persists it. Returns the domain sentinel errors
// (ErrSessionNotFound/ErrSessionNotOwner/ErrSessionAlreadyRevoked) so the
// HTTP layer can map them to the correct status code; each failure path
// also publishes SessionRevocationFailed for the audit trail.
func (h *RevokeSessionHandler) Handle(ctx context.Context, cmd RevokeSessionCommand) error {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewSessionRevocationAttempted(cmd.UserID.String(), cmd.SessionID.String()), pub)

	sess, err := h.sessions.FindByID(ctx, cmd.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			h.publisher.Publish(ctx, events.NewSessionRevocationFailed(cmd.UserID.String(), cmd.SessionID.String(), "session_not_found"), pub)
			return session.ErrSessionNotFound
		}
		return err
	}

	if sess.UserID != cmd.UserID {
		h.publisher.Publish(ctx, events.NewSessionRevocationFailed(cmd.UserID.String(), cmd.SessionID.String(), "not_session_owner"), pub)
		return session.ErrSessionNotOwner
	}

	if sess.Revoked {
		h.publisher.Publish(ctx, events.NewSessionRevocationFailed(cmd.UserID.String(), cmd.SessionID.String(), "session_already_revoked"), pub)
		return session.ErrSessionAlreadyRevoked
	}

	sess.Revoke(cmd.Reason)
	if err := h.sessions.Save(ctx, sess); err != nil {
		return err
	}

	if err := h.cache.Delete(ctx, sess.ID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("failed to evict revoked session from cache")
	}
	if err := h.cache.RemoveUserSession(ctx, cmd.UserID, sess.ID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", sess.ID.String()).Msg("failed to remove revoked session from user index")
	}

	h.publisher.Publish(ctx, events.NewSessionRevoked(cmd.UserID.String(), sess.ID.String(), string(cmd.Reason)), pub)

	h.logger.Info().
		Str("user_id", cmd.UserID.String()).
		Str("session_id", sess.ID.String()).
		Msg("session revoked")

	return nil
}
