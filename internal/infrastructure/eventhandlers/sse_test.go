package eventhandlers_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/domain/events"
	domainsse "github.com/dashtam/core/internal/domain/sse"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/eventhandlers"
)

type mockSSEPublisher struct {
	mock.Mock
}

func (m *mockSSEPublisher) Publish(ctx context.Context, e domainsse.Event) {
	m.Called(ctx, e)
}

func TestSSEHandler_Handle_PublishesMappedEvent(t *testing.T) {
	t.Parallel()

	publisher := &mockSSEPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domainsse.Event) bool {
		return e.EventType == "security.session.revoked" &&
			e.UserID == "user-1" &&
			e.Category == domainsse.CategorySecurity &&
			e.Data["session_id"] == "session-1"
	})).Return()

	handler := eventhandlers.NewSSEHandler(publisher, zerolog.Nop())
	evt := events.NewSessionRevoked("user-1", "session-1", "user_logout")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestSSEHandler_Handle_SkipsEventsWithNoMapping(t *testing.T) {
	t.Parallel()

	publisher := &mockSSEPublisher{}
	handler := eventhandlers.NewSSEHandler(publisher, zerolog.Nop())

	err := handler.Handle(context.Background(), newUnregisteredEvent(), &eventbus.PublishContext{})

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
