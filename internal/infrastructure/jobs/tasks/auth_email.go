package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	// TypeAuthEmail is the task type for authentication-related transactional email.
	TypeAuthEmail = "auth:email"

	// DefaultAuthEmailMaxRetry is the default number of retry attempts for sending auth email.
	DefaultAuthEmailMaxRetry = 3

	// DefaultAuthEmailTimeout is the default timeout for an auth email send.
	DefaultAuthEmailTimeout = 30 * time.Second
)

// AuthEmailKind identifies which transactional message to send; the sender
// decides subject/template from this, not from the event type string.
type AuthEmailKind string

const (
	AuthEmailWelcome          AuthEmailKind = "welcome"
	AuthEmailPasswordChanged  AuthEmailKind = "password_changed"
	AuthEmailPasswordReset    AuthEmailKind = "password_reset"
	AuthEmailPasswordResetted AuthEmailKind = "password_reset_confirmed"
)

// AuthEmailPayload contains the data needed to dispatch one transactional
// authentication email (§4.3 email handler).
type AuthEmailPayload struct {
	Kind       AuthEmailKind `json:"kind"`
	UserID     string        `json:"user_id"`
	To         string        `json:"to"`
	Token      string        `json:"token,omitempty"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
}

// AuthEmailSender delivers one rendered message. Implementations live
// outside this package (SMTP, SES, a third-party transactional API); the
// task handler only knows how to call it.
type AuthEmailSender interface {
	Send(ctx context.Context, payload AuthEmailPayload) error
}

// AuthEmailHandler processes auth email tasks via asynq.
type AuthEmailHandler struct {
	sender AuthEmailSender
	logger zerolog.Logger
}

// NewAuthEmailHandler creates a new auth email task handler.
func NewAuthEmailHandler(sender AuthEmailSender, logger zerolog.Logger) *AuthEmailHandler {
	return &AuthEmailHandler{sender: sender, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *AuthEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload AuthEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error().Err(err).Str("task_type", t.Type()).Msg("failed to unmarshal auth email payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.sender.Send(ctx, payload); err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", payload.UserID).
			Str("kind", string(payload.Kind)).
			Msg("failed to send auth email")
		return fmt.Errorf("send auth email: %w", err)
	}

	h.logger.Info().
		Str("user_id", payload.UserID).
		Str("kind", string(payload.Kind)).
		Msg("auth email sent")

	return nil
}

// NewAuthEmailTask creates a new auth email task with default options.
func NewAuthEmailTask(payload AuthEmailPayload) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return asynq.NewTask(
		TypeAuthEmail,
		payloadBytes,
		asynq.MaxRetry(DefaultAuthEmailMaxRetry),
		asynq.Timeout(DefaultAuthEmailTimeout),
		asynq.Queue("default"),
	), nil
}
