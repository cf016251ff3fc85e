package eventhandlers

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// AuditHandler persists one security.AuditRecord per event whose registry
// entry sets RequiresAudit. The event's AuditActionName becomes the
// record's Action; the event itself, JSON-encoded, becomes Context, so the
// audit trail stays queryable without a schema change per new event type.
type AuditHandler struct {
	repo   security.AuditRepository
	logger zerolog.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(repo security.AuditRepository, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, logger: logger}
}

func (h *AuditHandler) Name() string { return "audit" }

func (h *AuditHandler) Handle(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) error {
	entry, ok := events.LookupEvent(evt)
	if !ok || !entry.RequiresAudit {
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", evt.EventType()).Msg("failed to marshal event for audit context")
		payload = nil
	}

	var userID *string
	if id := evt.AggregateID(); id != "" {
		userID = &id
	}

	action := entry.AuditActionName
	if action == "" {
		action = evt.EventType()
	}

	rec := security.NewAuditRecord(action, userID, "domain_event", nil, pub.IPAddress, pub.UserAgent, payload)
	if err := h.repo.Record(ctx, rec); err != nil {
		h.logger.Error().Err(err).Str("event_type", evt.EventType()).Msg("failed to persist audit record")
		return err
	}

	return nil
}
