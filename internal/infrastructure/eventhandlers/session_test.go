package eventhandlers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/eventhandlers"
)

func TestSessionHandler_Handle_ChangePasswordSucceeded_RevokesSessions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessions := new(testhelpers.MockSessionRepository)
	cache := new(testhelpers.MockSessionCache)

	sessions.On("RevokeAllForUser", mock.Anything, userID, session.ReasonPasswordChanged, (*uuid.UUID)(nil)).Return(2, nil)
	cache.On("DeleteAllForUser", mock.Anything, userID).Return(nil)

	handler := eventhandlers.NewSessionHandler(sessions, cache, zerolog.Nop())
	evt := events.NewChangePasswordSucceeded(userID.String(), "user@example.com")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	sessions.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSessionHandler_Handle_ConfirmPasswordResetSucceeded_IsSkipped(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessions := new(testhelpers.MockSessionRepository)
	cache := new(testhelpers.MockSessionCache)

	handler := eventhandlers.NewSessionHandler(sessions, cache, zerolog.Nop())
	evt := events.NewPasswordResetConfirmSucceeded(userID.String(), "user@example.com")

	err := handler.Handle(context.Background(), evt, &eventbus.PublishContext{})

	require.NoError(t, err)
	sessions.AssertNotCalled(t, "RevokeAllForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_Handle_SkipsEventsNotRequiringSession(t *testing.T) {
	t.Parallel()

	sessions := new(testhelpers.MockSessionRepository)
	cache := new(testhelpers.MockSessionCache)
	handler := eventhandlers.NewSessionHandler(sessions, cache, zerolog.Nop())

	err := handler.Handle(context.Background(), newUnregisteredEvent(), &eventbus.PublishContext{})

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}
