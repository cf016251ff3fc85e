package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowAuthenticate = "authenticate"

// AuthenticateAttempted marks the start of a credential check.
type AuthenticateAttempted struct {
	shared.BaseEvent
	Email string
}

func NewAuthenticateAttempted(email string) AuthenticateAttempted {
	return AuthenticateAttempted{
		BaseEvent: shared.NewBaseEvent("identity.authenticate.attempted", ""),
		Email:     email,
	}
}

// AuthenticateSucceeded marks a successful credential verification, prior to
// any session or token issuance.
type AuthenticateSucceeded struct {
	shared.BaseEvent
	UserID string
	Email  string
}

func NewAuthenticateSucceeded(userID, email string) AuthenticateSucceeded {
	return AuthenticateSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.authenticate.succeeded", userID),
		UserID:    userID,
		Email:     email,
	}
}

// AuthenticateFailed carries the true internal reason (user_not_found,
// email_not_verified, account_locked, invalid_password) even though the
// first three collapse to invalid_credentials externally (§4.4).
type AuthenticateFailed struct {
	shared.BaseEvent
	Email  string
	Reason string
}

func NewAuthenticateFailed(email, reason string) AuthenticateFailed {
	return AuthenticateFailed{
		BaseEvent: shared.NewBaseEvent("identity.authenticate.failed", ""),
		Email:     email,
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.authenticate.attempted", Category: CategoryAuthentication,
		Workflow: workflowAuthenticate, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.authenticate.attempted",
	})
	register(Entry{
		EventType: "identity.authenticate.succeeded", Category: CategoryAuthentication,
		Workflow: workflowAuthenticate, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.authenticate.succeeded",
	})
	register(Entry{
		EventType: "identity.authenticate.failed", Category: CategoryAuthentication,
		Workflow: workflowAuthenticate, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.authenticate.failed",
	})
}
