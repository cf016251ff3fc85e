package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// RevokeAllSessionsCommand represents the intent to bulk-revoke every
// session for a user, optionally sparing one (§4.2 "Revoke all sessions").
type RevokeAllSessionsCommand struct {
	UserID          uuid.UUID
	Reason          session.RevocationReason
	ExceptSessionID *uuid.UUID
	IPAddress       string
	UserAgent       string
}

func (RevokeAllSessionsCommand) isCommand() {}

// RevokeAllSessionsHandler bulk-revokes sessions via the repository, clears
// the user's cache, and re-caches the excepted session if it is still
// active.
type RevokeAllSessionsHandler struct {
	sessions  appidentity.SessionRepository
	cache     appidentity.SessionCache
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewRevokeAllSessionsHandler creates a new RevokeAllSessionsHandler.
func NewRevokeAllSessionsHandler(
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *RevokeAllSessionsHandler {
	return &RevokeAllSessionsHandler{sessions: sessions, cache: cache, publisher: publisher, logger: logger}
}

// Handle returns the number of sessions revoked.
func (h *RevokeAllSessionsHandler) Handle(ctx context.Context, cmd RevokeAllSessionsCommand) (int, error) {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewAllSessionsRevocationAttempted(cmd.UserID.String(), string(cmd.Reason)), pub)

	count, err := h.sessions.RevokeAllForUser(ctx, cmd.UserID, cmd.Reason, cmd.ExceptSessionID)
	if err != nil {
		return 0, fmt.Errorf("revoke all sessions: %w", err)
	}

	if err := h.cache.DeleteAllForUser(ctx, cmd.UserID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", cmd.UserID.String()).Msg("failed to clear session cache during bulk revoke")
	}

	if cmd.ExceptSessionID != nil {
		if excepted, err := h.sessions.FindByID(ctx, *cmd.ExceptSessionID); err == nil && !excepted.Revoked {
			if err := h.cache.Set(ctx, excepted, session.DefaultTTL); err != nil {
				h.logger.Warn().Err(err).Str("session_id", excepted.ID.String()).Msg("failed to re-cache excepted session after bulk revoke")
			}
			if err := h.cache.AddUserSession(ctx, cmd.UserID, excepted.ID); err != nil {
				h.logger.Warn().Err(err).Str("session_id", excepted.ID.String()).Msg("failed to re-index excepted session after bulk revoke")
			}
		}
	}

	h.publisher.Publish(ctx, events.NewAllSessionsRevoked(cmd.UserID.String(), string(cmd.Reason), count), pub)

	h.logger.Info().
		Str("user_id", cmd.UserID.String()).
		Int("count", count).
		Msg("all sessions revoked")

	return count, nil
}
