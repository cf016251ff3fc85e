package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const (
	workflowRequestPasswordReset = "request_password_reset"
	workflowConfirmPasswordReset = "confirm_password_reset"
)

// PasswordResetRequested marks the start of a reset request. The external
// response is always a generic success regardless of this workflow's
// internal outcome (§4.4 user-enumeration protection).
type PasswordResetRequested struct {
	shared.BaseEvent
	Email string
}

func NewPasswordResetRequested(email string) PasswordResetRequested {
	return PasswordResetRequested{
		BaseEvent: shared.NewBaseEvent("identity.request_password_reset.attempted", ""),
		Email:     email,
	}
}

// PasswordResetRequestSucceeded carries only a truncated token (first 8
// chars), for audit and log correlation only. The full token is never
// placed on the event bus: it is single-use secret material, and the event
// bus fans out to every subscribed handler, any of which could log or
// persist its payload. The reset email is enqueued directly by
// RequestPasswordResetHandler, which is the only code that ever holds the
// unredacted token.
type PasswordResetRequestSucceeded struct {
	shared.BaseEvent
	UserID          string
	Email           string
	TruncatedToken  string
}

func NewPasswordResetRequestSucceeded(userID, email, truncatedToken string) PasswordResetRequestSucceeded {
	return PasswordResetRequestSucceeded{
		BaseEvent:      shared.NewBaseEvent("identity.request_password_reset.succeeded", userID),
		UserID:         userID,
		Email:          email,
		TruncatedToken: truncatedToken,
	}
}

// PasswordResetRequestFailed carries one of: user_not_found,
// email_not_verified, rate_limited. Internal-only; never surfaced.
type PasswordResetRequestFailed struct {
	shared.BaseEvent
	Email  string
	Reason string
}

func NewPasswordResetRequestFailed(email, reason string) PasswordResetRequestFailed {
	return PasswordResetRequestFailed{
		BaseEvent: shared.NewBaseEvent("identity.request_password_reset.failed", ""),
		Email:     email,
		Reason:    reason,
	}
}

// PasswordResetConfirmAttempted marks the start of a reset confirmation.
type PasswordResetConfirmAttempted struct {
	shared.BaseEvent
}

func NewPasswordResetConfirmAttempted() PasswordResetConfirmAttempted {
	return PasswordResetConfirmAttempted{BaseEvent: shared.NewBaseEvent("identity.confirm_password_reset.attempted", "")}
}

// PasswordResetConfirmSucceeded is emitted once the new password is stored,
// the token marked used, and all refresh tokens revoked.
type PasswordResetConfirmSucceeded struct {
	shared.BaseEvent
	UserID string
	Email  string
}

func NewPasswordResetConfirmSucceeded(userID, email string) PasswordResetConfirmSucceeded {
	return PasswordResetConfirmSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.confirm_password_reset.succeeded", userID),
		UserID:    userID,
		Email:     email,
	}
}

// PasswordResetConfirmFailed carries one of: token_not_found,
// token_expired, token_already_used, user_not_found.
type PasswordResetConfirmFailed struct {
	shared.BaseEvent
	Reason string
}

func NewPasswordResetConfirmFailed(reason string) PasswordResetConfirmFailed {
	return PasswordResetConfirmFailed{
		BaseEvent: shared.NewBaseEvent("identity.confirm_password_reset.failed", ""),
		Reason:    reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.request_password_reset.attempted", Category: CategoryAuthentication,
		Workflow: workflowRequestPasswordReset, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "password_reset.request.attempted",
	})
	register(Entry{
		EventType: "identity.request_password_reset.succeeded", Category: CategoryAuthentication,
		Workflow: workflowRequestPasswordReset, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true, RequiresEmail: true,
		AuditActionName: "password_reset.request.succeeded",
	})
	register(Entry{
		EventType: "identity.request_password_reset.failed", Category: CategoryAuthentication,
		Workflow: workflowRequestPasswordReset, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "password_reset.request.failed",
	})
	register(Entry{
		EventType: "identity.confirm_password_reset.attempted", Category: CategoryAuthentication,
		Workflow: workflowConfirmPasswordReset, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "password_reset.confirm.attempted",
	})
	register(Entry{
		EventType: "identity.confirm_password_reset.succeeded", Category: CategoryAuthentication,
		Workflow: workflowConfirmPasswordReset, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true, RequiresEmail: true, RequiresSession: true,
		AuditActionName: "password_reset.confirm.succeeded",
	})
	register(Entry{
		EventType: "identity.confirm_password_reset.failed", Category: CategoryAuthentication,
		Workflow: workflowConfirmPasswordReset, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "password_reset.confirm.failed",
	})
}
