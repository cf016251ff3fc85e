package eventhandlers_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/eventhandlers"
)

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) Record(ctx context.Context, r *security.AuditRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func TestAuditHandler_Handle_RecordsAuditedEvent(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepository{}
	repo.On("Record", mock.Anything, mock.MatchedBy(func(r *security.AuditRecord) bool {
		return r.Action == "user.login.succeeded" && r.UserID != nil && *r.UserID == "user-1"
	})).Return(nil)

	handler := eventhandlers.NewAuditHandler(repo, zerolog.Nop())
	evt := events.NewLoginSucceeded("user-1", "user@example.com", "session-1")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{IPAddress: "127.0.0.1", UserAgent: "test-agent"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditHandler_Handle_SkipsEventsNotRequiringAudit(t *testing.T) {
	t.Parallel()

	repo := &mockAuditRepository{}
	handler := eventhandlers.NewAuditHandler(repo, zerolog.Nop())

	// A bare BaseEvent type with no registry entry: entry lookup fails, so
	// the handler must no-op rather than recording a blank audit row.
	err := handler.Handle(context.Background(), unregisteredEvent{}, &eventbus.PublishContext{})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
