// Package events defines the authentication and session event types emitted
// by the identity, session, and token workflows, and the declarative
// registry that binds each event's wire type to its category, workflow
// phase, and handler requirements (§4.3).
package events
