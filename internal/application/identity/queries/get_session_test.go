package queries_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/queries"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/session"
)

func TestGetSessionHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	userID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)

	suite.Sessions.On("FindByID", mock.Anything, sess.ID).Return(sess, nil)

	handler := queries.NewGetSessionHandler(suite.Sessions)

	result, err := handler.Handle(context.Background(), queries.GetSessionQuery{
		SessionID:   sess.ID,
		RequestorID: userID,
	})

	require.NoError(t, err)
	assert.Equal(t, sess.ID.String(), result.SessionID)
	assert.False(t, result.IsCurrent)
	suite.Sessions.AssertExpectations(t)
}

func TestGetSessionHandler_Handle_MarksCurrentSession(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	userID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)

	suite.Sessions.On("FindByID", mock.Anything, sess.ID).Return(sess, nil)

	handler := queries.NewGetSessionHandler(suite.Sessions)

	result, err := handler.Handle(context.Background(), queries.GetSessionQuery{
		SessionID:        sess.ID,
		RequestorID:      userID,
		CurrentSessionID: sess.ID,
	})

	require.NoError(t, err)
	assert.True(t, result.IsCurrent)
}

func TestGetSessionHandler_Handle_AdminCanViewOtherUser(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	userID := uuid.New()
	adminID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)

	suite.Sessions.On("FindByID", mock.Anything, sess.ID).Return(sess, nil)

	handler := queries.NewGetSessionHandler(suite.Sessions)

	_, err := handler.Handle(context.Background(), queries.GetSessionQuery{
		SessionID:        sess.ID,
		RequestorID:      adminID,
		RequestorIsAdmin: true,
	})

	require.NoError(t, err)
}

func TestGetSessionHandler_Handle_Unauthorized(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	userID := uuid.New()
	otherUserID := uuid.New()
	sess := testhelpers.ValidSessionData(userID)

	suite.Sessions.On("FindByID", mock.Anything, sess.ID).Return(sess, nil)

	handler := queries.NewGetSessionHandler(suite.Sessions)

	_, err := handler.Handle(context.Background(), queries.GetSessionQuery{
		SessionID:   sess.ID,
		RequestorID: otherUserID,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestGetSessionHandler_Handle_NotFound(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	sessionID := uuid.New()

	suite.Sessions.On("FindByID", mock.Anything, sessionID).Return(nil, session.ErrSessionNotFound)

	handler := queries.NewGetSessionHandler(suite.Sessions)

	_, err := handler.Handle(context.Background(), queries.GetSessionQuery{
		SessionID:   sessionID,
		RequestorID: uuid.New(),
	})

	require.Error(t, err)
}
