package sse

import (
	"fmt"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/shared"
)

// PayloadExtractor converts a domain event into the free-form SSE payload
// map. Must be pure and side-effect-free (§4.5).
type PayloadExtractor func(shared.DomainEvent) map[string]any

// UserIDExtractor resolves which user's channel an SSE publish targets.
type UserIDExtractor func(shared.DomainEvent) string

// Mapping is one row of the SSE registry: a domain event type bound to its
// SSE wire type and extractors.
type Mapping struct {
	DomainEventType string
	SSEEventType    string
	Category        Category
	Payload         PayloadExtractor
	UserID          UserIDExtractor
}

// registry maps a domain event's wire type to its SSE Mapping. A domain
// event without an entry here is silently ignored by the publisher — not
// all domain events are client-visible (§4.5).
var registry = map[string]Mapping{}

func register(m Mapping) {
	if _, exists := registry[m.DomainEventType]; exists {
		panic(fmt.Sprintf("sse: duplicate registry entry for %q", m.DomainEventType))
	}
	registry[m.DomainEventType] = m
}

// Lookup returns the SSE mapping for a domain event type, if one exists.
func Lookup(domainEventType string) (Mapping, bool) {
	m, ok := registry[domainEventType]
	return m, ok
}

func init() {
	register(Mapping{
		DomainEventType: "session.revoked",
		SSEEventType:    "security.session.revoked",
		Category:        CategorySecurity,
		Payload: func(e shared.DomainEvent) map[string]any {
			evt := e.(events.SessionRevoked)
			return map[string]any{"session_id": evt.SessionID, "reason": evt.Reason}
		},
		UserID: func(e shared.DomainEvent) string {
			return e.(events.SessionRevoked).UserID
		},
	})
	register(Mapping{
		DomainEventType: "session.evicted",
		SSEEventType:    "security.session.evicted",
		Category:        CategorySecurity,
		Payload: func(e shared.DomainEvent) map[string]any {
			evt := e.(events.SessionEvicted)
			return map[string]any{"session_id": evt.SessionID}
		},
		UserID: func(e shared.DomainEvent) string {
			return e.(events.SessionEvicted).UserID
		},
	})
	register(Mapping{
		DomainEventType: "session.revocation.all.succeeded",
		SSEEventType:    "security.session.all_revoked",
		Category:        CategorySecurity,
		Payload: func(e shared.DomainEvent) map[string]any {
			evt := e.(events.AllSessionsRevoked)
			return map[string]any{"reason": evt.Reason, "count": evt.Count}
		},
		UserID: func(e shared.DomainEvent) string {
			return e.(events.AllSessionsRevoked).UserID
		},
	})
	register(Mapping{
		DomainEventType: "identity.refresh.token_rejected_due_to_rotation",
		SSEEventType:    "security.token.rotation_rejected",
		Category:        CategorySecurity,
		Payload: func(e shared.DomainEvent) map[string]any {
			evt := e.(events.TokenRejectedDueToRotation)
			return map[string]any{"rejection_reason": evt.RejectionReason}
		},
		UserID: func(e shared.DomainEvent) string {
			return e.(events.TokenRejectedDueToRotation).UserID
		},
	})
	register(Mapping{
		DomainEventType: "identity.change_password.succeeded",
		SSEEventType:    "security.password.changed",
		Category:        CategorySecurity,
		Payload: func(shared.DomainEvent) map[string]any {
			return map[string]any{}
		},
		UserID: func(e shared.DomainEvent) string {
			return e.(events.ChangePasswordSucceeded).UserID
		},
	})
}
