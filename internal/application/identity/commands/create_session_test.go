package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/session"
)

func TestCreateSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	handler := commands.NewCreateSessionHandler(suite.Sessions, suite.SessionCache, suite.EventPublisher, &suite.Logger)

	userID := uuid.New()
	suite.Sessions.On("Save", mock.Anything, mock.Anything).Return(nil)
	suite.SessionCache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.SessionCache.On("AddUserSession", mock.Anything, userID, mock.Anything).Return(nil)

	cmd := commands.CreateSessionCommand{
		UserID:     userID,
		DeviceInfo: testhelpers.ValidDeviceInfo,
		UserAgent:  testhelpers.ValidUserAgent,
		IPAddress:  testhelpers.ValidIPAddress,
		Location:   testhelpers.ValidLocation,
	}

	got, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	require.Equal(t, userID, got.UserID)
	suite.Sessions.AssertExpectations(t)
	suite.SessionCache.AssertExpectations(t)
}

func TestCreateSessionHandler_Handle_EvictsOldestWhenAtLimit(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	handler := commands.NewCreateSessionHandler(suite.Sessions, suite.SessionCache, suite.EventPublisher, &suite.Logger)

	userID := uuid.New()
	oldest := testhelpers.ValidSessionData(userID)

	suite.Sessions.On("CountActiveSessions", mock.Anything, userID).Return(3, nil)
	suite.Sessions.On("GetOldestActiveSession", mock.Anything, userID).Return(oldest, nil)
	suite.Sessions.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Data) bool { return s.ID == oldest.ID })).Return(nil)
	suite.SessionCache.On("Delete", mock.Anything, oldest.ID).Return(nil)
	suite.SessionCache.On("RemoveUserSession", mock.Anything, userID, oldest.ID).Return(nil)
	suite.Sessions.On("Save", mock.Anything, mock.MatchedBy(func(s *session.Data) bool { return s.ID != oldest.ID })).Return(nil)
	suite.SessionCache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.SessionCache.On("AddUserSession", mock.Anything, userID, mock.Anything).Return(nil)

	cmd := commands.CreateSessionCommand{
		UserID:      userID,
		DeviceInfo:  testhelpers.ValidDeviceInfo,
		UserAgent:   testhelpers.ValidUserAgent,
		IPAddress:   testhelpers.ValidIPAddress,
		Location:    testhelpers.ValidLocation,
		MaxSessions: 3,
	}

	got, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	require.NotNil(t, got)
	suite.Sessions.AssertExpectations(t)
	suite.SessionCache.AssertExpectations(t)
}
