package eventhandlers_test

import (
	"github.com/dashtam/core/internal/domain/shared"
)

// unregisteredEvent is a DomainEvent with no events.Entry, used to exercise
// each handler's "not in the registry" guard.
type unregisteredEvent struct {
	shared.BaseEvent
}

func newUnregisteredEvent() unregisteredEvent {
	return unregisteredEvent{BaseEvent: shared.NewBaseEvent("test.unregistered", "user-1")}
}
