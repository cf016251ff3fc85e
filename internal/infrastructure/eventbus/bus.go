// Package eventbus implements the fail-open, concurrent-dispatch domain
// event bus of §4.3: subscribe(event_type, handler), publish(event,
// session?, metadata?), exact-type routing, no-handlers-is-no-op.
package eventbus

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/domain/shared"
)

// Handler processes one domain event. A returned error is logged but never
// cancels sibling handlers or propagates to the publisher (fail-open).
type Handler interface {
	Name() string
	Handle(ctx context.Context, evt shared.DomainEvent, pub *PublishContext) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc struct {
	name string
	fn   func(ctx context.Context, evt shared.DomainEvent, pub *PublishContext) error
}

// NewHandlerFunc wraps fn as a named Handler.
func NewHandlerFunc(name string, fn func(ctx context.Context, evt shared.DomainEvent, pub *PublishContext) error) HandlerFunc {
	return HandlerFunc{name: name, fn: fn}
}

func (h HandlerFunc) Name() string { return h.name }

func (h HandlerFunc) Handle(ctx context.Context, evt shared.DomainEvent, pub *PublishContext) error {
	return h.fn(ctx, evt, pub)
}

// PublishContext carries optional per-publish context (§4.3): a DB handle
// the audit handler can reuse instead of opening a new session, and
// IP/user-agent metadata for audit enrichment. Handlers read these from the
// bus, never from thread-locals.
type PublishContext struct {
	DBSession any
	IPAddress string
	UserAgent string
}

// Bus routes domain events to subscribed handlers by exact runtime type
// (the event's EventType() string), never by inheritance.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   zerolog.Logger
}

// New creates an empty Bus.
func New(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers handler for eventType. Multiple handlers per type are
// allowed; they run concurrently with no mutual ordering guarantee.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish dispatches evt to every handler subscribed to its exact type,
// running them concurrently, and returns only once all have completed. A
// handler that panics or returns an error is logged at warning level with
// event_id and handler name but never cancels siblings or propagates here.
// No registered handlers is a no-op, not an error.
func (b *Bus) Publish(ctx context.Context, evt shared.DomainEvent, pub *PublishContext) {
	b.mu.RLock()
	handlers := b.handlers[evt.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	if pub == nil {
		pub = &PublishContext{}
	}

	var wg sync.WaitGroup
	for _, h := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Warn().
						Str("event_id", evt.EventID()).
						Str("handler", h.Name()).
						Interface("panic", r).
						Msg("event handler panicked")
				}
			}()

			if err := h.Handle(ctx, evt, pub); err != nil {
				b.logger.Warn().
					Str("event_id", evt.EventID()).
					Str("handler", h.Name()).
					Err(err).
					Msg("event handler returned error")
			}
		}(h)
	}
	wg.Wait()
}
