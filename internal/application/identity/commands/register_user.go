package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// RegisterUserCommand represents the intent to create a new user account.
// It encapsulates all information needed for user registration including
// IP and UserAgent for security auditing.
type RegisterUserCommand struct {
	Email     string
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// Implement Command interface from types.go
func (RegisterUserCommand) isCommand() {}

// RegisterUserHandler processes user registration commands.
// It orchestrates the registration workflow: validation, uniqueness checks,
// password hashing, user creation, verification-token issuance, and event
// publishing.
type RegisterUserHandler struct {
	users         appidentity.UserRepository
	verifications appidentity.EmailVerificationRepository
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler with the given dependencies.
func NewRegisterUserHandler(
	users appidentity.UserRepository,
	verifications appidentity.EmailVerificationRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:         users,
		verifications: verifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle executes the user registration use case.
//
// Process flow:
//  1. Convert DTOs to domain value objects (validation happens here)
//  2. Check email and username uniqueness (business rule)
//  3. Hash password, create the User aggregate, persist it
//  4. Issue and persist an email verification token (TTL 24h)
//  5. Publish domain events after successful save
//  6. Return UserDTO (without password hash)
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*dto.UserDTO, error) {
	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewRegisterAttempted(cmd.Email), pub)

	email, err := identity.NewEmail(cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	username, err := identity.NewUsername(cmd.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	existingByEmail, err := h.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if existingByEmail != nil {
		h.publisher.Publish(ctx, events.NewRegisterFailed(cmd.Email, "duplicate_email"), pub)
		return nil, appidentity.ErrEmailAlreadyExists
	}

	existingByUsername, err := h.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return nil, fmt.Errorf("check username uniqueness: %w", err)
	}
	if existingByUsername != nil {
		h.publisher.Publish(ctx, events.NewRegisterFailed(cmd.Email, "duplicate_username"), pub)
		return nil, appidentity.ErrUsernameAlreadyExists
	}

	passwordHash, err := identity.NewPasswordHash(cmd.Password)
	if err != nil {
		h.publisher.Publish(ctx, events.NewRegisterFailed(cmd.Email, "password_policy_violation"), pub)
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	user, err := identity.NewUser(email, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := h.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	userUUID, err := uuid.Parse(user.ID().String())
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}

	verification, err := token.NewEmailVerificationToken(userUUID)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}
	if err := h.verifications.Save(ctx, verification); err != nil {
		return nil, fmt.Errorf("save verification token: %w", err)
	}

	for _, event := range user.Events() {
		h.publisher.Publish(ctx, event, pub)
	}
	user.ClearEvents()

	h.publisher.Publish(ctx, events.NewRegisterSucceeded(user.ID().String(), email.String(), verification.Token), pub)

	h.logger.Info().
		Str("user_id", user.ID().String()).
		Str("email", email.String()).
		Str("username", username.String()).
		Msg("user registered successfully")

	userDTO := dto.FromDomain(user)
	return &userDTO, nil
}
