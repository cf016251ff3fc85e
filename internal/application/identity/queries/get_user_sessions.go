package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
)

// GetUserSessionsQuery retrieves all active sessions for a user.
// This is a read-only operation with no side effects.
type GetUserSessionsQuery struct {
	UserID           uuid.UUID
	RequestorID      uuid.UUID // Who is requesting (for authorization)
	RequestorIsAdmin bool
	CurrentSessionID uuid.UUID
}

// GetUserSessionsHandler processes GetUserSessionsQuery requests.
// It retrieves all active sessions for a user from the session repository.
type GetUserSessionsHandler struct {
	sessions appidentity.SessionRepository
}

// NewGetUserSessionsHandler creates a new GetUserSessionsHandler with the given dependencies.
func NewGetUserSessionsHandler(sessions appidentity.SessionRepository) *GetUserSessionsHandler {
	return &GetUserSessionsHandler{sessions: sessions}
}

// Handle executes the GetUserSessionsQuery and returns the list of active sessions.
// Authorization: the requestor must be the user themselves or an admin.
func (h *GetUserSessionsHandler) Handle(ctx context.Context, q GetUserSessionsQuery) ([]dto.SessionDTO, error) {
	if q.RequestorID != q.UserID && !q.RequestorIsAdmin {
		return nil, fmt.Errorf("unauthorized: cannot view sessions for another user")
	}

	sessions, err := h.sessions.FindByUserID(ctx, q.UserID, true)
	if err != nil {
		return nil, fmt.Errorf("get user sessions: %w", err)
	}

	sessionDTOs := make([]dto.SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		sessionDTOs = append(sessionDTOs, dto.SessionDTO{
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
		})
	}

	return sessionDTOs, nil
}
