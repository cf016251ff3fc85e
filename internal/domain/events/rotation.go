package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const (
	workflowTriggerGlobalRotation = "trigger_global_rotation"
	workflowTriggerUserRotation   = "trigger_user_rotation"
)

// GlobalRotationTriggered is emitted after an admin advances
// global_min_token_version.
type GlobalRotationTriggered struct {
	shared.BaseEvent
	AdminID         string
	PreviousVersion int
	NewVersion      int
	Reason          string
	GracePeriodSecs int
}

func NewGlobalRotationTriggered(adminID string, previousVersion, newVersion int, reason string, gracePeriodSecs int) GlobalRotationTriggered {
	return GlobalRotationTriggered{
		BaseEvent:       shared.NewBaseEvent("identity.trigger_global_rotation.succeeded", adminID),
		AdminID:         adminID,
		PreviousVersion: previousVersion,
		NewVersion:      newVersion,
		Reason:          reason,
		GracePeriodSecs: gracePeriodSecs,
	}
}

// UserRotationTriggered is emitted after an admin advances a single user's
// min_token_version.
type UserRotationTriggered struct {
	shared.BaseEvent
	AdminID         string
	UserID          string
	PreviousVersion int
	NewVersion      int
	Reason          string
}

func NewUserRotationTriggered(adminID, userID string, previousVersion, newVersion int, reason string) UserRotationTriggered {
	return UserRotationTriggered{
		BaseEvent:       shared.NewBaseEvent("identity.trigger_user_rotation.succeeded", userID),
		AdminID:         adminID,
		UserID:          userID,
		PreviousVersion: previousVersion,
		NewVersion:      newVersion,
		Reason:          reason,
	}
}

func init() {
	register(Entry{
		EventType: "identity.trigger_global_rotation.succeeded", Category: CategoryAdmin,
		Workflow: workflowTriggerGlobalRotation, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "admin.rotation.global.triggered",
	})
	register(Entry{
		EventType: "identity.trigger_user_rotation.succeeded", Category: CategoryAdmin,
		Workflow: workflowTriggerUserRotation, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true,
		AuditActionName: "admin.rotation.user.triggered",
	})
}
