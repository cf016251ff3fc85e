package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/token"
)

func newRefreshTokenHandler(suite *testhelpers.TestSuite) *commands.RefreshTokenHandler {
	return commands.NewRefreshTokenHandler(suite.UserRepo, suite.RefreshTokens, suite.Sessions, suite.SessionCache, suite.SecurityConfig, suite.JWTService, suite.EventPublisher, &suite.Logger)
}

func TestRefreshTokenHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	user := testhelpers.ValidUserWithPassword(testhelpers.ValidPassword)
	userID, err := uuid.Parse(user.ID().String())
	require.NoError(t, err)
	sess := testhelpers.ValidSessionData(userID)
	_, record := testhelpers.ValidRefreshTokenData(userID, sess.ID)

	suite.RefreshTokens.On("FindByVerification", mock.Anything, "old-refresh").Return(record, nil)
	suite.UserRepo.On("FindByID", mock.Anything, user.ID()).Return(user, nil)
	suite.SecurityConfig.On("Get", mock.Anything).Return(testhelpers.DefaultSecurityConfig(), nil)
	suite.Sessions.On("FindByID", mock.Anything, sess.ID).Return(sess, nil)
	suite.RefreshTokens.On("Delete", mock.Anything, record.ID).Return(nil)
	suite.JWTService.On("GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything, sess.ID.String(), mock.Anything).
		Return("new.access.token", nil)
	suite.JWTService.On("GetTokenExpiration", "new.access.token").Return(time.Now().UTC().Add(15*time.Minute), nil)
	suite.RefreshTokens.On("Save", mock.Anything, mock.Anything).Return(nil)
	suite.Sessions.On("Save", mock.Anything, sess).Return(nil)
	suite.SessionCache.On("Set", mock.Anything, sess, mock.Anything).Return(nil)

	handler := newRefreshTokenHandler(suite)

	got, err := handler.Handle(context.Background(), commands.RefreshTokenCommand{
		RefreshToken: "old-refresh",
		IPAddress:    testhelpers.ValidIPAddress,
		UserAgent:    testhelpers.ValidUserAgent,
	})

	require.NoError(t, err)
	require.Equal(t, "new.access.token", got.AccessToken)
}

func TestRefreshTokenHandler_Handle_TokenNotFound(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	suite.RefreshTokens.On("FindByVerification", mock.Anything, "bad-token").Return(nil, token.ErrRefreshTokenNotFound)

	handler := newRefreshTokenHandler(suite)

	got, err := handler.Handle(context.Background(), commands.RefreshTokenCommand{RefreshToken: "bad-token"})

	require.Error(t, err)
	require.Nil(t, got)
}

func TestRefreshTokenHandler_Handle_ExpiredToken(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	userID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)
	_, record := testhelpers.ValidRefreshTokenData(userID, sess.ID)
	record.ExpiresAt = time.Now().UTC().Add(-1 * time.Hour)

	suite.RefreshTokens.On("FindByVerification", mock.Anything, "old-refresh").Return(record, nil)

	handler := newRefreshTokenHandler(suite)

	got, err := handler.Handle(context.Background(), commands.RefreshTokenCommand{RefreshToken: "old-refresh"})

	require.Error(t, err)
	require.Nil(t, got)
}

func TestRefreshTokenHandler_Handle_RevokedToken(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	userID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)
	_, record := testhelpers.ValidRefreshTokenData(userID, sess.ID)
	now := time.Now().UTC()
	record.RevokedAt = &now

	suite.RefreshTokens.On("FindByVerification", mock.Anything, "old-refresh").Return(record, nil)

	handler := newRefreshTokenHandler(suite)

	got, err := handler.Handle(context.Background(), commands.RefreshTokenCommand{RefreshToken: "old-refresh"})

	require.Error(t, err)
	require.Nil(t, got)
}
