package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
)

func newTriggerUserRotationHandler(suite *testhelpers.TestSuite) *commands.TriggerUserRotationHandler {
	return commands.NewTriggerUserRotationHandler(suite.UserRepo, suite.EventPublisher, &suite.Logger)
}

func TestTriggerUserRotationHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	user := testhelpers.ValidUser()

	suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil)
	suite.UserRepo.On("Save", mock.Anything, user).Return(nil)

	handler := newTriggerUserRotationHandler(suite)

	err := handler.Handle(context.Background(), commands.TriggerUserRotationCommand{
		AdminID: "admin-1",
		UserID:  user.ID().String(),
		Reason:  "compromised_account",
	})

	require.NoError(t, err)
	require.Equal(t, 1, user.MinTokenVersion())
}

func TestTriggerUserRotationHandler_Handle_InvalidUserID(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()

	handler := newTriggerUserRotationHandler(suite)

	err := handler.Handle(context.Background(), commands.TriggerUserRotationCommand{
		AdminID: "admin-1",
		UserID:  "not-a-uuid",
		Reason:  "compromised_account",
	})

	require.Error(t, err)
}
