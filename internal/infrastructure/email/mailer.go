// Package email adapts the generic asynq task queue into the
// authentication-specific email abstractions the application layer
// depends on (appidentity.PasswordResetMailer and the event handlers'
// AuthEmailEnqueuer). No SMTP/SES code lives here: this package only
// gets a rendering job onto the queue; internal/infrastructure/jobs/tasks
// defines what "processing" that job means.
package email

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dashtam/core/internal/infrastructure/jobs/tasks"
)

// TaskEnqueuer is the subset of *asynqinfra.Client this package needs,
// narrowed to keep the package testable without a real Redis connection.
type TaskEnqueuer interface {
	EnqueueTask(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// Mailer enqueues transactional authentication email via asynq rather than
// sending synchronously, so a slow or down mail provider never blocks a
// command handler.
type Mailer struct {
	enqueuer TaskEnqueuer
}

// NewMailer creates a new Mailer.
func NewMailer(enqueuer TaskEnqueuer) *Mailer {
	return &Mailer{enqueuer: enqueuer}
}

// SendResetEmail implements appidentity.PasswordResetMailer. It is the only
// path by which an unredacted password reset token leaves process memory.
func (m *Mailer) SendResetEmail(ctx context.Context, userID, email, token string) error {
	return m.enqueue(ctx, tasks.AuthEmailPayload{
		Kind:       tasks.AuthEmailPasswordReset,
		UserID:     userID,
		To:         email,
		Token:      token,
		EnqueuedAt: time.Now().UTC(),
	})
}

// SendWelcomeEmail enqueues the post-registration verification email.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, userID, email, verificationToken string) error {
	return m.enqueue(ctx, tasks.AuthEmailPayload{
		Kind:       tasks.AuthEmailWelcome,
		UserID:     userID,
		To:         email,
		Token:      verificationToken,
		EnqueuedAt: time.Now().UTC(),
	})
}

// SendPasswordChangedEmail enqueues the "your password changed" notice.
// It carries no token: it is informational only, for a user who may not
// have initiated the change.
func (m *Mailer) SendPasswordChangedEmail(ctx context.Context, userID, email string) error {
	return m.enqueue(ctx, tasks.AuthEmailPayload{
		Kind:       tasks.AuthEmailPasswordChanged,
		UserID:     userID,
		To:         email,
		EnqueuedAt: time.Now().UTC(),
	})
}

// SendPasswordResetConfirmedEmail enqueues the "your password was reset"
// notice following a successful reset confirmation.
func (m *Mailer) SendPasswordResetConfirmedEmail(ctx context.Context, userID, email string) error {
	return m.enqueue(ctx, tasks.AuthEmailPayload{
		Kind:       tasks.AuthEmailPasswordResetted,
		UserID:     userID,
		To:         email,
		EnqueuedAt: time.Now().UTC(),
	})
}

func (m *Mailer) enqueue(ctx context.Context, payload tasks.AuthEmailPayload) error {
	return m.enqueuer.EnqueueTask(
		ctx,
		tasks.TypeAuthEmail,
		payload,
		asynq.MaxRetry(tasks.DefaultAuthEmailMaxRetry),
		asynq.Timeout(tasks.DefaultAuthEmailTimeout),
		asynq.Queue("default"),
	)
}
