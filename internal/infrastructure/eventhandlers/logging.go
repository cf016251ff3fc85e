// Package eventhandlers implements the four standard subscribers of §4.3:
// structured logging, audit persistence, transactional email, and
// cross-session revocation. Each is a thin eventbus.Handler that reads the
// event's registry Entry to decide whether it applies, then does exactly
// one thing; composition (which events route to which handler) is wired at
// startup, not decided inside Handle.
package eventhandlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// LoggingHandler writes one structured log line per event whose registry
// entry sets RequiresLogging. It never fails: a logging handler that
// returns an error for a malformed event would just get logged again by
// the bus, so it degrades to logging what it has.
type LoggingHandler struct {
	logger zerolog.Logger
}

// NewLoggingHandler creates a new LoggingHandler.
func NewLoggingHandler(logger zerolog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Name() string { return "logging" }

func (h *LoggingHandler) Handle(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) error {
	entry, _ := events.LookupEvent(evt)

	h.logger.Info().
		Str("event_id", evt.EventID()).
		Str("event_type", evt.EventType()).
		Str("aggregate_id", evt.AggregateID()).
		Str("category", string(entry.Category)).
		Str("workflow", entry.Workflow).
		Str("phase", string(entry.Phase)).
		Str("ip_address", pub.IPAddress).
		Time("occurred_at", evt.OccurredAt()).
		Msg("domain event")

	return nil
}
