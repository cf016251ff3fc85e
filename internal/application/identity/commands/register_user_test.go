package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/identity"
)

func TestRegisterUserHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	suite.SetupSuccessfulUserCreation()
	handler := commands.NewRegisterUserHandler(suite.UserRepo, suite.EmailVerifs, suite.EventPublisher, &suite.Logger)

	cmd := commands.RegisterUserCommand{
		Email:     testhelpers.ValidEmail,
		Username:  testhelpers.ValidUsername,
		Password:  testhelpers.ValidPassword,
		IPAddress: testhelpers.ValidIPAddress,
		UserAgent: testhelpers.ValidUserAgent,
	}

	result, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, testhelpers.ValidEmail, result.Email)
	suite.UserRepo.AssertExpectations(t)
	suite.EmailVerifs.AssertExpectations(t)
}

func TestRegisterUserHandler_Handle_DuplicateEmail(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	existing := testhelpers.ValidUser()
	suite.SetupEmailAlreadyExists(existing)
	handler := commands.NewRegisterUserHandler(suite.UserRepo, suite.EmailVerifs, suite.EventPublisher, &suite.Logger)

	cmd := commands.RegisterUserCommand{
		Email:     testhelpers.ValidEmail,
		Username:  testhelpers.ValidUsername,
		Password:  testhelpers.ValidPassword,
		IPAddress: testhelpers.ValidIPAddress,
		UserAgent: testhelpers.ValidUserAgent,
	}

	result, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	require.Nil(t, result)
}

func TestRegisterUserHandler_Handle_DuplicateUsername(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	suite.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, identity.ErrUserNotFound)
	existing := testhelpers.ValidUser()
	suite.SetupUsernameAlreadyExists(existing)
	handler := commands.NewRegisterUserHandler(suite.UserRepo, suite.EmailVerifs, suite.EventPublisher, &suite.Logger)

	cmd := commands.RegisterUserCommand{
		Email:     testhelpers.ValidEmail,
		Username:  testhelpers.ValidUsername,
		Password:  testhelpers.ValidPassword,
		IPAddress: testhelpers.ValidIPAddress,
		UserAgent: testhelpers.ValidUserAgent,
	}

	result, err := handler.Handle(context.Background(), cmd)

	require.Error(t, err)
	require.Nil(t, result)
}

func TestRegisterUserHandler_Handle_WeakPassword(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	suite.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, identity.ErrUserNotFound)
	suite.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, identity.ErrUserNotFound)
	handler := commands.NewRegisterUserHandler(suite.UserRepo, suite.EmailVerifs, suite.EventPublisher, &suite.Logger)

	for _, weak := range testhelpers.InvalidPasswords() {
		cmd := commands.RegisterUserCommand{
			Email:     testhelpers.ValidEmail,
			Username:  testhelpers.ValidUsername,
			Password:  weak,
			IPAddress: testhelpers.ValidIPAddress,
			UserAgent: testhelpers.ValidUserAgent,
		}
		result, err := handler.Handle(context.Background(), cmd)
		require.Error(t, err)
		require.Nil(t, result)
	}
}
