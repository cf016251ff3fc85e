package eventhandlers_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/eventhandlers"
)

type mockAuthEmailEnqueuer struct {
	mock.Mock
}

func (m *mockAuthEmailEnqueuer) SendWelcomeEmail(ctx context.Context, userID, email, verificationToken string) error {
	args := m.Called(ctx, userID, email, verificationToken)
	return args.Error(0)
}

func (m *mockAuthEmailEnqueuer) SendPasswordChangedEmail(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *mockAuthEmailEnqueuer) SendPasswordResetConfirmedEmail(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func TestEmailHandler_Handle_RegisterSucceeded_SendsWelcome(t *testing.T) {
	t.Parallel()

	mailer := &mockAuthEmailEnqueuer{}
	mailer.On("SendWelcomeEmail", mock.Anything, "user-1", "user@example.com", "verify-token").Return(nil)

	handler := eventhandlers.NewEmailHandler(mailer, zerolog.Nop())
	evt := events.NewRegisterSucceeded("user-1", "user@example.com", "verify-token")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestEmailHandler_Handle_ChangePasswordSucceeded_SendsNotice(t *testing.T) {
	t.Parallel()

	mailer := &mockAuthEmailEnqueuer{}
	mailer.On("SendPasswordChangedEmail", mock.Anything, "user-1", "user@example.com").Return(nil)

	handler := eventhandlers.NewEmailHandler(mailer, zerolog.Nop())
	evt := events.NewChangePasswordSucceeded("user-1", "user@example.com")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestEmailHandler_Handle_PasswordResetRequestSucceeded_IsSkipped(t *testing.T) {
	t.Parallel()

	mailer := &mockAuthEmailEnqueuer{}
	handler := eventhandlers.NewEmailHandler(mailer, zerolog.Nop())
	evt := events.NewPasswordResetRequestSucceeded("user-1", "user@example.com", "abcd1234")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	mailer.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailHandler_Handle_SkipsEventsNotRequiringEmail(t *testing.T) {
	t.Parallel()

	mailer := &mockAuthEmailEnqueuer{}
	handler := eventhandlers.NewEmailHandler(mailer, zerolog.Nop())

	err := handler.Handle(context.Background(), newUnregisteredEvent(), &eventbus.PublishContext{})

	require.NoError(t, err)
	mailer.AssertExpectations(t)
}
