package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowRefresh = "refresh_access_token"

// RefreshAttempted marks the start of a token refresh.
type RefreshAttempted struct {
	shared.BaseEvent
}

func NewRefreshAttempted() RefreshAttempted {
	return RefreshAttempted{BaseEvent: shared.NewBaseEvent("identity.refresh.attempted", "")}
}

// RefreshSucceeded is emitted once the old refresh record is deleted and a
// new pair (refresh + access JWT) is issued under the current
// global_min_token_version, preserving the original session_id.
type RefreshSucceeded struct {
	shared.BaseEvent
	UserID    string
	SessionID string
}

func NewRefreshSucceeded(userID, sessionID string) RefreshSucceeded {
	return RefreshSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.refresh.succeeded", userID),
		UserID:    userID,
		SessionID: sessionID,
	}
}

// RefreshFailed carries one of: token_invalid, token_expired, token_revoked,
// token_version_rejected, user_not_active.
type RefreshFailed struct {
	shared.BaseEvent
	Reason string
}

func NewRefreshFailed(reason string) RefreshFailed {
	return RefreshFailed{
		BaseEvent: shared.NewBaseEvent("identity.refresh.failed", ""),
		Reason:    reason,
	}
}

// TokenRejectedDueToRotation is published whenever the two-level rotation
// check of §4.1 rejects a refresh token.
type TokenRejectedDueToRotation struct {
	shared.BaseEvent
	UserID          string
	RejectionReason string
}

func NewTokenRejectedDueToRotation(userID, rejectionReason string) TokenRejectedDueToRotation {
	return TokenRejectedDueToRotation{
		BaseEvent:       shared.NewBaseEvent("identity.refresh.token_rejected_due_to_rotation", userID),
		UserID:          userID,
		RejectionReason: rejectionReason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.refresh.attempted", Category: CategoryAuthentication,
		Workflow: workflowRefresh, Phase: PhaseAttempted,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "token.refresh.attempted",
	})
	register(Entry{
		EventType: "identity.refresh.succeeded", Category: CategoryAuthentication,
		Workflow: workflowRefresh, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "token.refresh.succeeded",
	})
	register(Entry{
		EventType: "identity.refresh.failed", Category: CategoryAuthentication,
		Workflow: workflowRefresh, Phase: PhaseFailed,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "token.refresh.failed",
	})
	register(Entry{
		EventType: "identity.refresh.token_rejected_due_to_rotation", Category: CategoryAuthentication,
		Workflow: workflowRefresh, Phase: PhaseDenied,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "token.rotation.rejected",
	})
}
