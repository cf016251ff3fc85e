package events

import (
	"fmt"

	"github.com/dashtam/core/internal/domain/shared"
)

// Category classifies an event for statistics, SSE routing, and audit grouping.
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryProvider       Category = "provider"
	CategoryDataSync       Category = "data_sync"
	CategorySession        Category = "session"
	CategoryRateLimit      Category = "rate_limit"
	CategoryAdmin          Category = "admin"
)

// Phase identifies where in a workflow's lifecycle an event was emitted.
type Phase string

const (
	PhaseAttempted Phase = "ATTEMPTED"
	PhaseSucceeded Phase = "SUCCEEDED"
	PhaseFailed    Phase = "FAILED"
	PhaseAllowed   Phase = "ALLOWED"
	PhaseDenied    Phase = "DENIED"
	PhaseOperational Phase = "OPERATIONAL"
)

// Entry is one row of the event registry: everything a handler needs to know
// about an event type without inspecting its payload.
type Entry struct {
	EventType        string
	Category         Category
	Workflow         string
	Phase            Phase
	RequiresLogging  bool
	RequiresAudit    bool
	RequiresEmail    bool
	RequiresSession  bool
	AuditActionName  string
}

// registry is the authoritative, statically initialised table (§4.3). It is
// read-only after Register's init() calls populate it at program start.
var registry = map[string]Entry{}

// register adds an entry, panicking on a duplicate event type since that
// indicates a programming error caught at process start, not runtime data.
func register(e Entry) {
	if _, exists := registry[e.EventType]; exists {
		panic(fmt.Sprintf("events: duplicate registry entry for %q", e.EventType))
	}
	registry[e.EventType] = e
}

// Lookup returns the registry entry for a domain event's wire type, if any.
func Lookup(eventType string) (Entry, bool) {
	e, ok := registry[eventType]
	return e, ok
}

// LookupEvent is a convenience wrapper around Lookup for a live DomainEvent.
func LookupEvent(evt shared.DomainEvent) (Entry, bool) {
	return Lookup(evt.EventType())
}

// All returns every registered entry, for statistics and compliance checks.
func All() []Entry {
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	return out
}

// StatsByCategory returns a count of registry entries per category.
func StatsByCategory() map[Category]int {
	out := map[Category]int{}
	for _, e := range registry {
		out[e.Category]++
	}
	return out
}

// StatsByPhase returns a count of registry entries per phase.
func StatsByPhase() map[Phase]int {
	out := map[Phase]int{}
	for _, e := range registry {
		out[e.Phase]++
	}
	return out
}
