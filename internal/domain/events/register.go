package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowRegister = "register"

// RegisterAttempted marks the start of a registration attempt.
type RegisterAttempted struct {
	shared.BaseEvent
	Email string
}

func NewRegisterAttempted(email string) RegisterAttempted {
	return RegisterAttempted{
		BaseEvent: shared.NewBaseEvent("identity.register.attempted", ""),
		Email:     email,
	}
}

// RegisterSucceeded carries the verification token so the email handler can
// dispatch the confirmation link without a second lookup.
type RegisterSucceeded struct {
	shared.BaseEvent
	UserID             string
	Email              string
	VerificationToken  string
}

func NewRegisterSucceeded(userID, email, verificationToken string) RegisterSucceeded {
	return RegisterSucceeded{
		BaseEvent:         shared.NewBaseEvent("identity.register.succeeded", userID),
		UserID:            userID,
		Email:             email,
		VerificationToken: verificationToken,
	}
}

// RegisterFailed carries the machine-readable reason: duplicate_email or
// password_policy_violation.
type RegisterFailed struct {
	shared.BaseEvent
	Email  string
	Reason string
}

func NewRegisterFailed(email, reason string) RegisterFailed {
	return RegisterFailed{
		BaseEvent: shared.NewBaseEvent("identity.register.failed", ""),
		Email:     email,
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.register.attempted", Category: CategoryAuthentication,
		Workflow: workflowRegister, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.register.attempted",
	})
	register(Entry{
		EventType: "identity.register.succeeded", Category: CategoryAuthentication,
		Workflow: workflowRegister, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true, RequiresEmail: true,
		AuditActionName: "user.register.succeeded",
	})
	register(Entry{
		EventType: "identity.register.failed", Category: CategoryAuthentication,
		Workflow: workflowRegister, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "user.register.failed",
	})
}
