package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowChangePassword = "change_password"

// ChangePasswordAttempted marks the start of an authenticated password
// change.
type ChangePasswordAttempted struct {
	shared.BaseEvent
	UserID string
}

func NewChangePasswordAttempted(userID string) ChangePasswordAttempted {
	return ChangePasswordAttempted{
		BaseEvent: shared.NewBaseEvent("identity.change_password.attempted", userID),
		UserID:    userID,
	}
}

// ChangePasswordSucceeded is emitted once the new password is stored; the
// session handler then revokes every session for the user (§9 S9).
type ChangePasswordSucceeded struct {
	shared.BaseEvent
	UserID string
	Email  string
}

func NewChangePasswordSucceeded(userID, email string) ChangePasswordSucceeded {
	return ChangePasswordSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.change_password.succeeded", userID),
		UserID:    userID,
		Email:     email,
	}
}

// ChangePasswordFailed carries invalid_credentials when the supplied old
// password does not verify.
type ChangePasswordFailed struct {
	shared.BaseEvent
	UserID string
	Reason string
}

func NewChangePasswordFailed(userID, reason string) ChangePasswordFailed {
	return ChangePasswordFailed{
		BaseEvent: shared.NewBaseEvent("identity.change_password.failed", userID),
		UserID:    userID,
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.change_password.attempted", Category: CategoryAuthentication,
		Workflow: workflowChangePassword, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.change_password.attempted",
	})
	register(Entry{
		EventType: "identity.change_password.succeeded", Category: CategoryAuthentication,
		Workflow: workflowChangePassword, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true, RequiresEmail: true, RequiresSession: true,
		AuditActionName: "user.change_password.succeeded",
	})
	register(Entry{
		EventType: "identity.change_password.failed", Category: CategoryAuthentication,
		Workflow: workflowChangePassword, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.change_password.failed",
	})
}
