package eventhandlers

import (
	"context"

	"github.com/rs/zerolog"

	domainsse "github.com/dashtam/core/internal/domain/sse"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// SSEPublisher is the subset of infrastructure/sse.Publisher this handler needs.
type SSEPublisher interface {
	Publish(ctx context.Context, e domainsse.Event)
}

// SSEHandler translates domain events into SSE wire events via the SSE
// registry (§4.5) and hands them to a Publisher. A domain event without an
// SSE mapping is silently ignored; not every domain event is client-visible.
type SSEHandler struct {
	publisher SSEPublisher
	logger    zerolog.Logger
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(publisher SSEPublisher, logger zerolog.Logger) *SSEHandler {
	return &SSEHandler{publisher: publisher, logger: logger}
}

func (h *SSEHandler) Name() string { return "sse" }

func (h *SSEHandler) Handle(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) error {
	mapping, ok := domainsse.Lookup(evt.EventType())
	if !ok {
		return nil
	}

	sseEvt, err := domainsse.NewEvent(mapping.SSEEventType, mapping.UserID(evt), mapping.Category, mapping.Payload(evt))
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", evt.EventType()).Msg("sse: failed to build event")
		return nil
	}

	h.publisher.Publish(ctx, sseEvt)
	return nil
}
