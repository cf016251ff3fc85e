package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowVerifyEmail = "verify_email"

// VerifyEmailAttempted marks the start of an email-verification attempt.
type VerifyEmailAttempted struct {
	shared.BaseEvent
}

func NewVerifyEmailAttempted() VerifyEmailAttempted {
	return VerifyEmailAttempted{BaseEvent: shared.NewBaseEvent("identity.verify_email.attempted", "")}
}

// VerifyEmailSucceeded is emitted once is_verified is set and the token is
// marked used.
type VerifyEmailSucceeded struct {
	shared.BaseEvent
	UserID string
	Email  string
}

func NewVerifyEmailSucceeded(userID, email string) VerifyEmailSucceeded {
	return VerifyEmailSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.verify_email.succeeded", userID),
		UserID:    userID,
		Email:     email,
	}
}

// VerifyEmailFailed carries one of: token_not_found, token_expired,
// token_already_used, user_not_found.
type VerifyEmailFailed struct {
	shared.BaseEvent
	Reason string
}

func NewVerifyEmailFailed(reason string) VerifyEmailFailed {
	return VerifyEmailFailed{
		BaseEvent: shared.NewBaseEvent("identity.verify_email.failed", ""),
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.verify_email.attempted", Category: CategoryAuthentication,
		Workflow: workflowVerifyEmail, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.verify_email.attempted",
	})
	register(Entry{
		EventType: "identity.verify_email.succeeded", Category: CategoryAuthentication,
		Workflow: workflowVerifyEmail, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.verify_email.succeeded",
	})
	register(Entry{
		EventType: "identity.verify_email.failed", Category: CategoryAuthentication,
		Workflow: workflowVerifyEmail, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.verify_email.failed",
	})
}
