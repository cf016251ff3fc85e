package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
)

// GetSessionQuery retrieves a single session by id (C8 "get").
type GetSessionQuery struct {
	SessionID        uuid.UUID
	RequestorID      uuid.UUID
	RequestorIsAdmin bool
	CurrentSessionID uuid.UUID
}

// GetSessionHandler processes GetSessionQuery requests.
type GetSessionHandler struct {
	sessions appidentity.SessionRepository
}

// NewGetSessionHandler creates a new GetSessionHandler.
func NewGetSessionHandler(sessions appidentity.SessionRepository) *GetSessionHandler {
	return &GetSessionHandler{sessions: sessions}
}

// Handle looks up the session and enforces that the requestor owns it
// (or is an admin) before returning it, mirroring GetUserSessionsHandler's
// authorization rule.
func (h *GetSessionHandler) Handle(ctx context.Context, q GetSessionQuery) (dto.SessionDTO, error) {
	s, err := h.sessions.FindByID(ctx, q.SessionID)
	if err != nil {
		return dto.SessionDTO{}, fmt.Errorf("get session: %w", err)
	}

	if s.UserID != q.RequestorID && !q.RequestorIsAdmin {
		return dto.SessionDTO{}, fmt.Errorf("unauthorized: cannot view another user's session")
	}

	return dto.SessionDTO{
		SessionID:  s.ID.String(),
		DeviceInfo: s.DeviceInfo,
		IP:         s.IPAddress,
		UserAgent:  s.UserAgent,
		Location:   s.Location,
		Trusted:    s.Trusted,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastActivityAt,
		ExpiresAt:  s.ExpiresAt,
		IsCurrent:  q.CurrentSessionID != uuid.Nil && s.ID == q.CurrentSessionID,
	}, nil
}
