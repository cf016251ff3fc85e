package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowLogout = "logout"

// LogoutAttempted marks the start of a logout request.
type LogoutAttempted struct {
	shared.BaseEvent
	UserID string
}

func NewLogoutAttempted(userID string) LogoutAttempted {
	return LogoutAttempted{
		BaseEvent: shared.NewBaseEvent("identity.logout.attempted", userID),
		UserID:    userID,
	}
}

// LogoutSucceeded is emitted once the bound session's refresh tokens are
// revoked. All observable caller outcomes are success (§4.4); this event
// only fires on the true success path.
type LogoutSucceeded struct {
	shared.BaseEvent
	UserID    string
	SessionID string
}

func NewLogoutSucceeded(userID, sessionID string) LogoutSucceeded {
	return LogoutSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.logout.succeeded", userID),
		UserID:    userID,
		SessionID: sessionID,
	}
}

// LogoutFailed carries the internal-only reason: token_not_found,
// token_user_mismatch, or token_already_revoked. Never surfaced to the
// caller, who always observes success.
type LogoutFailed struct {
	shared.BaseEvent
	UserID string
	Reason string
}

func NewLogoutFailed(userID, reason string) LogoutFailed {
	return LogoutFailed{
		BaseEvent: shared.NewBaseEvent("identity.logout.failed", userID),
		UserID:    userID,
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.logout.attempted", Category: CategoryAuthentication,
		Workflow: workflowLogout, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.logout.attempted",
	})
	register(Entry{
		EventType: "identity.logout.succeeded", Category: CategoryAuthentication,
		Workflow: workflowLogout, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.logout.succeeded",
	})
	register(Entry{
		EventType: "identity.logout.failed", Category: CategoryAuthentication,
		Workflow: workflowLogout, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.logout.failed",
	})
}
