package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// AuthenticateCommand represents the intent to verify a user's credentials
// without creating a session or issuing tokens (§4.4 Authenticate).
type AuthenticateCommand struct {
	Identifier string // email or username
	Password   string
	IPAddress  string
	UserAgent  string
}

func (AuthenticateCommand) isCommand() {}

// AuthenticateHandler verifies credentials only. Guard order: user exists,
// email verified, account not locked, account active, password matches.
// The first three failure reasons collapse to ErrInvalidCredentials
// externally; the true reason still travels on AuthenticateFailed.
type AuthenticateHandler struct {
	users     appidentity.UserRepository
	publisher appidentity.EventPublisher
	logger    *zerolog.Logger
}

// NewAuthenticateHandler creates a new AuthenticateHandler.
func NewAuthenticateHandler(
	users appidentity.UserRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *AuthenticateHandler {
	return &AuthenticateHandler{users: users, publisher: publisher, logger: logger}
}

// Handle verifies the caller's credentials and returns the authenticated
// User aggregate on success.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*identity.User, error) {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewAuthenticateAttempted(cmd.Identifier), pub)

	user, err := h.findUser(ctx, cmd.Identifier)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			h.publisher.Publish(ctx, events.NewAuthenticateFailed(cmd.Identifier, "user_not_found"), pub)
			return nil, appidentity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsVerified() {
		h.publisher.Publish(ctx, events.NewAuthenticateFailed(cmd.Identifier, "email_not_verified"), pub)
		return nil, appidentity.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		h.publisher.Publish(ctx, events.NewAuthenticateFailed(cmd.Identifier, "account_locked"), pub)
		return nil, appidentity.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		h.publisher.Publish(ctx, events.NewAuthenticateFailed(cmd.Identifier, "account_inactive"), pub)
		return nil, appidentity.ErrInvalidCredentials
	}

	if err := user.VerifyPassword(cmd.Password); err != nil {
		user.IncrementFailedLogin(now)
		if saveErr := h.users.Save(ctx, user); saveErr != nil {
			h.logger.Error().Err(saveErr).Str("user_id", user.ID().String()).Msg("failed to persist failed-login counter")
		}
		h.publisher.Publish(ctx, events.NewAuthenticateFailed(cmd.Identifier, "invalid_password"), pub)
		return nil, appidentity.ErrInvalidCredentials
	}

	user.ResetFailedLogin()
	if err := h.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("persist reset failed-login counter: %w", err)
	}

	h.publisher.Publish(ctx, events.NewAuthenticateSucceeded(user.ID().String(), user.Email().String()), pub)

	h.logger.Debug().Str("user_id", user.ID().String()).Msg("credentials verified")

	return user, nil
}

// findUser resolves identifier as an email first, falling back to username.
func (h *AuthenticateHandler) findUser(ctx context.Context, identifier string) (*identity.User, error) {
	if email, err := identity.NewEmail(identifier); err == nil {
		user, err := h.users.FindByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, identity.ErrUserNotFound) {
			return nil, err
		}
	}

	username, err := identity.NewUsername(identifier)
	if err != nil {
		return nil, identity.ErrUserNotFound
	}
	return h.users.FindByUsername(ctx, username)
}
