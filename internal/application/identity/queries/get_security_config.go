package queries

import (
	"context"
	"fmt"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
)

// GetSecurityConfigQuery retrieves the current global token-rotation state (§5).
// This is a read-only operation with no side effects.
type GetSecurityConfigQuery struct{}

// GetSecurityConfigHandler processes GetSecurityConfigQuery requests.
type GetSecurityConfigHandler struct {
	security appidentity.SecurityConfigRepository
}

// NewGetSecurityConfigHandler creates a new GetSecurityConfigHandler.
func NewGetSecurityConfigHandler(security appidentity.SecurityConfigRepository) *GetSecurityConfigHandler {
	return &GetSecurityConfigHandler{security: security}
}

// Handle returns the current singleton SecurityConfig.
func (h *GetSecurityConfigHandler) Handle(ctx context.Context, _ GetSecurityConfigQuery) (*dto.SecurityConfigDTO, error) {
	cfg, err := h.security.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get security config: %w", err)
	}

	return &dto.SecurityConfigDTO{
		GlobalMinTokenVersion: cfg.GlobalMinTokenVersion,
		LastRotationAt:        cfg.LastRotationAt,
		GracePeriodSeconds:    cfg.GracePeriodSeconds,
		Reason:                cfg.Reason,
	}, nil
}
