package email_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/infrastructure/email"
	"github.com/dashtam/core/internal/infrastructure/jobs/tasks"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueTask(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	args := m.Called(ctx, taskType, payload)
	return args.Error(0)
}

func TestMailer_SendResetEmail_EnqueuesWithToken(t *testing.T) {
	t.Parallel()

	enqueuer := &mockEnqueuer{}
	enqueuer.On("EnqueueTask", mock.Anything, tasks.TypeAuthEmail, mock.MatchedBy(func(p tasks.AuthEmailPayload) bool {
		return p.Kind == tasks.AuthEmailPasswordReset && p.Token == "reset-token" && p.To == "user@example.com"
	})).Return(nil)

	mailer := email.NewMailer(enqueuer)
	err := mailer.SendResetEmail(context.Background(), "user-1", "user@example.com", "reset-token")

	require.NoError(t, err)
	enqueuer.AssertExpectations(t)
}

func TestMailer_SendWelcomeEmail_EnqueuesWithVerificationToken(t *testing.T) {
	t.Parallel()

	enqueuer := &mockEnqueuer{}
	enqueuer.On("EnqueueTask", mock.Anything, tasks.TypeAuthEmail, mock.MatchedBy(func(p tasks.AuthEmailPayload) bool {
		return p.Kind == tasks.AuthEmailWelcome && p.Token == "verify-token"
	})).Return(nil)

	mailer := email.NewMailer(enqueuer)
	err := mailer.SendWelcomeEmail(context.Background(), "user-1", "user@example.com", "verify-token")

	require.NoError(t, err)
	enqueuer.AssertExpectations(t)
}

func TestMailer_SendPasswordChangedEmail_EnqueuesWithoutToken(t *testing.T) {
	t.Parallel()

	enqueuer := &mockEnqueuer{}
	enqueuer.On("EnqueueTask", mock.Anything, tasks.TypeAuthEmail, mock.MatchedBy(func(p tasks.AuthEmailPayload) bool {
		return p.Kind == tasks.AuthEmailPasswordChanged && p.Token == ""
	})).Return(nil)

	mailer := email.NewMailer(enqueuer)
	err := mailer.SendPasswordChangedEmail(context.Background(), "user-1", "user@example.com")

	require.NoError(t, err)
	enqueuer.AssertExpectations(t)
}
