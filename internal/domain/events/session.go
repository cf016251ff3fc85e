package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const (
	workflowCreateSession    = "create_session"
	workflowRevokeSession    = "revoke_session"
	workflowRevokeAllSessions = "revoke_all_sessions"
)

// SessionCreated is emitted once a new session has been persisted and cached.
type SessionCreated struct {
	shared.BaseEvent
	UserID     string
	SessionID  string
	DeviceInfo string
	Location   string
}

func NewSessionCreated(userID, sessionID, deviceInfo, location string) SessionCreated {
	return SessionCreated{
		BaseEvent:  shared.NewBaseEvent("session.created", userID),
		UserID:     userID,
		SessionID:  sessionID,
		DeviceInfo: deviceInfo,
		Location:   location,
	}
}

// SessionEvicted is emitted when the oldest active session is revoked to
// make room under a per-tier session cap (§4.2 step 4).
type SessionEvicted struct {
	shared.BaseEvent
	UserID    string
	SessionID string
}

func NewSessionEvicted(userID, sessionID string) SessionEvicted {
	return SessionEvicted{
		BaseEvent: shared.NewBaseEvent("session.evicted", userID),
		UserID:    userID,
		SessionID: sessionID,
	}
}

// SessionRevocationAttempted marks the start of a single-session revocation.
type SessionRevocationAttempted struct {
	shared.BaseEvent
	UserID    string
	SessionID string
}

func NewSessionRevocationAttempted(userID, sessionID string) SessionRevocationAttempted {
	return SessionRevocationAttempted{
		BaseEvent: shared.NewBaseEvent("session.revocation.attempted", userID),
		UserID:    userID,
		SessionID: sessionID,
	}
}

// SessionRevoked is emitted once a single session is marked revoked.
type SessionRevoked struct {
	shared.BaseEvent
	UserID    string
	SessionID string
	Reason    string
}

func NewSessionRevoked(userID, sessionID, reason string) SessionRevoked {
	return SessionRevoked{
		BaseEvent: shared.NewBaseEvent("session.revoked", userID),
		UserID:    userID,
		SessionID: sessionID,
		Reason:    reason,
	}
}

// SessionRevocationFailed carries one of: session_not_found,
// not_session_owner, session_already_revoked.
type SessionRevocationFailed struct {
	shared.BaseEvent
	UserID    string
	SessionID string
	Reason    string
}

func NewSessionRevocationFailed(userID, sessionID, reason string) SessionRevocationFailed {
	return SessionRevocationFailed{
		BaseEvent: shared.NewBaseEvent("session.revocation.failed", userID),
		UserID:    userID,
		SessionID: sessionID,
		Reason:    reason,
	}
}

// AllSessionsRevocationAttempted marks the start of a bulk revocation.
type AllSessionsRevocationAttempted struct {
	shared.BaseEvent
	UserID string
	Reason string
}

func NewAllSessionsRevocationAttempted(userID, reason string) AllSessionsRevocationAttempted {
	return AllSessionsRevocationAttempted{
		BaseEvent: shared.NewBaseEvent("session.revocation.all.attempted", userID),
		UserID:    userID,
		Reason:    reason,
	}
}

// AllSessionsRevoked carries the count of sessions revoked in bulk.
type AllSessionsRevoked struct {
	shared.BaseEvent
	UserID string
	Reason string
	Count  int
}

func NewAllSessionsRevoked(userID, reason string, count int) AllSessionsRevoked {
	return AllSessionsRevoked{
		BaseEvent: shared.NewBaseEvent("session.revocation.all.succeeded", userID),
		UserID:    userID,
		Reason:    reason,
		Count:     count,
	}
}

func init() {
	register(Entry{
		EventType: "session.created", Category: CategorySession,
		Workflow: workflowCreateSession, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.created",
	})
	register(Entry{
		EventType: "session.evicted", Category: CategorySession,
		Workflow: workflowCreateSession, Phase: PhaseOperational,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.evicted",
	})
	register(Entry{
		EventType: "session.revocation.attempted", Category: CategorySession,
		Workflow: workflowRevokeSession, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.revocation.attempted",
	})
	register(Entry{
		EventType: "session.revoked", Category: CategorySession,
		Workflow: workflowRevokeSession, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.revoked",
	})
	register(Entry{
		EventType: "session.revocation.failed", Category: CategorySession,
		Workflow: workflowRevokeSession, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.revocation.failed",
	})
	register(Entry{
		EventType: "session.revocation.all.attempted", Category: CategorySession,
		Workflow: workflowRevokeAllSessions, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.revocation.all.attempted",
	})
	register(Entry{
		EventType: "session.revocation.all.succeeded", Category: CategorySession,
		Workflow: workflowRevokeAllSessions, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "session.revocation.all.succeeded",
	})
}
