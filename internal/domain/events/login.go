package events

import (
	"github.com/dashtam/core/internal/domain/shared"
)

const workflowLogin = "login"

// LoginSucceeded is emitted once Authenticate, CreateSession, and
// GenerateAuthTokens have all completed (§4.4 Login composite).
type LoginSucceeded struct {
	shared.BaseEvent
	UserID    string
	Email     string
	SessionID string
}

func NewLoginSucceeded(userID, email, sessionID string) LoginSucceeded {
	return LoginSucceeded{
		BaseEvent: shared.NewBaseEvent("identity.login.succeeded", userID),
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
	}
}

func init() {
	register(Entry{
		EventType: "identity.login.succeeded", Category: CategoryAuthentication,
		Workflow: workflowLogin, Phase: PhaseSucceeded,
		RequiresLogging: true, RequiresAudit: true, RequiresEmail: false,
		AuditActionName: "user.login.succeeded",
	})
}
