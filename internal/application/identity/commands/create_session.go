package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// CreateSessionCommand represents the intent to establish a new session for
// an already-authenticated user (§4.2).
type CreateSessionCommand struct {
	UserID     uuid.UUID
	DeviceInfo string
	UserAgent  string
	IPAddress  string
	Location   string
	MaxSessions int // 0 means unlimited
}

func (CreateSessionCommand) isCommand() {}

// CreateSessionHandler creates a session, evicting the oldest active session
// first if the user's tier cap would otherwise be exceeded.
type CreateSessionHandler struct {
	sessions  appidentity.SessionRepository
	cache     appidentity.SessionCache
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewCreateSessionHandler creates a new CreateSessionHandler.
func NewCreateSessionHandler(
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *CreateSessionHandler {
	return &CreateSessionHandler{sessions: sessions, cache: cache, publisher: publisher, logger: logger}
}

// Handle enforces the per-tier session cap, evicting the oldest active
// session when at capacity, then persists and caches the new session.
func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (*session.Data, error) {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}

	if cmd.MaxSessions > 0 {
		count, err := h.sessions.CountActiveSessions(ctx, cmd.UserID)
		if err != nil {
			return nil, fmt.Errorf("count active sessions: %w", err)
		}
		if count >= cmd.MaxSessions {
			oldest, err := h.sessions.GetOldestActiveSession(ctx, cmd.UserID)
			if err != nil {
				return nil, fmt.Errorf("find oldest session for eviction: %w", err)
			}
			oldest.Revoke(session.ReasonSessionLimitExceeded)
			if err := h.sessions.Save(ctx, oldest); err != nil {
				return nil, fmt.Errorf("persist evicted session: %w", err)
			}
			if err := h.cache.Delete(ctx, oldest.ID); err != nil {
				h.logger.Warn().Err(err).Str("session_id", oldest.ID.String()).Msg("failed to evict session from cache")
			}
			if err := h.cache.RemoveUserSession(ctx, cmd.UserID, oldest.ID); err != nil {
				h.logger.Warn().Err(err).Str("session_id", oldest.ID.String()).Msg("failed to remove evicted session from user index")
			}
			h.publisher.Publish(ctx, events.NewSessionEvicted(cmd.UserID.String(), oldest.ID.String()), pub)
		}
	}

	data, err := session.New(cmd.UserID, cmd.DeviceInfo, cmd.UserAgent, cmd.IPAddress, cmd.Location, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := h.sessions.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if err := h.cache.Set(ctx, data, session.DefaultTTL); err != nil {
		h.logger.Warn().Err(err).Str("session_id", data.ID.String()).Msg("failed to cache new session")
	}
	if err := h.cache.AddUserSession(ctx, cmd.UserID, data.ID); err != nil {
		h.logger.Warn().Err(err).Str("session_id", data.ID.String()).Msg("failed to index new session for user")
	}

	h.publisher.Publish(ctx, events.NewSessionCreated(cmd.UserID.String(), data.ID.String(), cmd.DeviceInfo, cmd.Location), pub)

	h.logger.Info().
		Str("user_id", cmd.UserID.String()).
		Str("session_id", data.ID.String()).
		Msg("session created")

	return data, nil
}

