package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/dto"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
)

// LoginCommand represents the intent to authenticate a user and start a
// session. The identifier can be either an email address or username.
type LoginCommand struct {
	Identifier string // Email or username
	Password   string
	DeviceInfo string
	IPAddress  string
	UserAgent  string
	Location   string
}

// LoginHandler composes AuthenticateHandler, CreateSessionHandler, and
// GenerateAuthTokensHandler into the full login workflow (§4.4 Login).
// It runs each sub-step in order and only emits LoginSucceeded once all
// three have succeeded.
type LoginHandler struct {
	authenticate  *AuthenticateHandler
	createSession *CreateSessionHandler
	generateAuth  *GenerateAuthTokensHandler
	security      appidentity.SecurityConfigRepository
	publisher     appidentity.EventPublisher
	logger        *zerolog.Logger
}

// NewLoginHandler creates a new LoginHandler from its three composed handlers.
func NewLoginHandler(
	authenticate *AuthenticateHandler,
	createSession *CreateSessionHandler,
	generateAuth *GenerateAuthTokensHandler,
	security appidentity.SecurityConfigRepository,
	publisher appidentity.EventPublisher,
	logger *zerolog.Logger,
) *LoginHandler {
	return &LoginHandler{
		authenticate:  authenticate,
		createSession: createSession,
		generateAuth:  generateAuth,
		security:      security,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle runs Authenticate, then CreateSession, then GenerateAuthTokens.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*dto.AuthResponseDTO, error) {
	user, err := h.authenticate.Handle(ctx, AuthenticateCommand{
		Identifier: cmd.Identifier,
		Password:   cmd.Password,
		IPAddress:  cmd.IPAddress,
		UserAgent:  cmd.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(user.ID().String())
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}

	sess, err := h.createSession.Handle(ctx, CreateSessionCommand{
		UserID:      userID,
		DeviceInfo:  cmd.DeviceInfo,
		UserAgent:   cmd.UserAgent,
		IPAddress:   cmd.IPAddress,
		Location:    cmd.Location,
		MaxSessions: user.MaxSessions(),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	secConfig, err := h.security.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}

	tokens, err := h.generateAuth.Handle(ctx, GenerateAuthTokensCommand{
		UserID:                userID,
		Email:                 user.Email().String(),
		Roles:                 []string{user.Role().String()},
		Session:               sess,
		GlobalMinTokenVersion: secConfig.GlobalMinTokenVersion,
		UserMinTokenVersion:   user.MinTokenVersion(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate auth tokens: %w", err)
	}

	pub := &eventbus.PublishContext{IPAddress: cmd.IPAddress, UserAgent: cmd.UserAgent}
	h.publisher.Publish(ctx, events.NewLoginSucceeded(user.ID().String(), user.Email().String(), sess.ID.String()), pub)

	h.logger.Info().
		Str("user_id", user.ID().String()).
		Str("session_id", sess.ID.String()).
		Msg("user logged in successfully")

	response := dto.NewAuthResponseDTO(user, *tokens)
	return &response, nil
}
