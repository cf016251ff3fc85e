package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/dashtam/core/internal/application/identity"
	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/token"
)

func newVerifyEmailHandler(suite *testhelpers.TestSuite) *commands.VerifyEmailHandler {
	return commands.NewVerifyEmailHandler(suite.UserRepo, suite.EmailVerifs, suite.EventPublisher, &suite.Logger)
}

func TestVerifyEmailHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	user := testhelpers.ValidUser()
	userID, err := uuid.Parse(user.ID().String())
	require.NoError(t, err)
	verification := testhelpers.ValidEmailVerificationToken(userID)

	suite.EmailVerifs.On("FindByToken", mock.Anything, verification.Token).Return(verification, nil)
	suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil)
	suite.UserRepo.On("Save", mock.Anything, user).Return(nil)
	suite.EmailVerifs.On("Save", mock.Anything, verification).Return(nil)

	handler := newVerifyEmailHandler(suite)

	err = handler.Handle(context.Background(), commands.VerifyEmailCommand{Token: verification.Token})

	require.NoError(t, err)
	require.True(t, user.IsVerified())
	require.True(t, verification.IsUsed())
}

func TestVerifyEmailHandler_Handle_TokenNotFound(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	suite.EmailVerifs.On("FindByToken", mock.Anything, "bad-token").Return(nil, token.ErrEmailVerificationTokenNotFound)

	handler := newVerifyEmailHandler(suite)

	err := handler.Handle(context.Background(), commands.VerifyEmailCommand{Token: "bad-token"})

	require.ErrorIs(t, err, appidentity.ErrTokenNotFound)
}

func TestVerifyEmailHandler_Handle_TokenAlreadyUsed(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	user := testhelpers.ValidUser()
	userID, err := uuid.Parse(user.ID().String())
	require.NoError(t, err)
	verification := testhelpers.ValidEmailVerificationToken(userID)
	verification.MarkUsed()

	suite.EmailVerifs.On("FindByToken", mock.Anything, verification.Token).Return(verification, nil)

	handler := newVerifyEmailHandler(suite)

	err = handler.Handle(context.Background(), commands.VerifyEmailCommand{Token: verification.Token})

	require.Error(t, err)
	suite.UserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
