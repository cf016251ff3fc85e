package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	domainIdentity "github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/session"
)

// DeleteUserCommand soft-deletes a user account.
// This is a write operation that marks the user as deleted.
// Requires password confirmation to prevent accidental deletion.
type DeleteUserCommand struct {
	UserID      uuid.UUID
	RequestorID uuid.UUID
	Password    string // Require password confirmation for safety
}

// Implement Command interface
func (DeleteUserCommand) isCommand() {}

// DeleteUserHandler processes DeleteUserCommand requests.
// It verifies authorization and password, then soft-deletes the user and revokes all sessions.
type DeleteUserHandler struct {
	userRepo domainIdentity.UserRepository
	sessions appidentity.SessionRepository
	cache    appidentity.SessionCache
	logger   *zerolog.Logger
}

// NewDeleteUserHandler creates a new DeleteUserHandler with the given dependencies.
func NewDeleteUserHandler(
	userRepo domainIdentity.UserRepository,
	sessions appidentity.SessionRepository,
	cache appidentity.SessionCache,
	logger *zerolog.Logger,
) *DeleteUserHandler {
	return &DeleteUserHandler{
		userRepo: userRepo,
		sessions: sessions,
		cache:    cache,
		logger:   logger,
	}
}

// Handle executes the DeleteUserCommand.
// Authorization: The requestor must own the user ID and provide correct password.
// This operation:
//  1. Verifies authorization and password
//  2. Soft-deletes the user (via repository Delete method)
//  3. Revokes all active sessions
//
// Returns:
//   - error: Authorization errors, invalid password, or repository errors
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	// Authorization: Verify requestor owns the user ID
	if cmd.RequestorID != cmd.UserID {
		return fmt.Errorf("unauthorized: cannot delete another user's account")
	}

	// Convert UUID to domain UserID value object
	userID, err := domainIdentity.ParseUserID(cmd.UserID.String())
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	// Retrieve user from repository
	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user by id: %w", err)
	}

	// Verify password before allowing deletion
	if err := user.VerifyPassword(cmd.Password); err != nil {
		return fmt.Errorf("password verification failed: %w", domainIdentity.ErrInvalidCredentials)
	}

	// Soft delete the user (repository implementation should set deleted_at)
	if err := h.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	// Revoke all sessions to immediately log out the user from all devices
	if _, err := h.sessions.RevokeAllForUser(ctx, cmd.UserID, session.ReasonAccountDeleted, nil); err != nil {
		h.logger.Error().Err(err).Str("user_id", cmd.UserID.String()).Msg("failed to revoke sessions after account deletion")
	}
	if err := h.cache.DeleteAllForUser(ctx, cmd.UserID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", cmd.UserID.String()).Msg("failed to clear cached sessions after account deletion")
	}

	return nil
}
