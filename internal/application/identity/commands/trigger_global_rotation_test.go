package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/testhelpers"
	"github.com/dashtam/core/internal/domain/security"
)

func newTriggerGlobalRotationHandler(suite *testhelpers.TestSuite) *commands.TriggerGlobalRotationHandler {
	return commands.NewTriggerGlobalRotationHandler(suite.SecurityConfig, suite.EventPublisher, &suite.Logger)
}

func TestTriggerGlobalRotationHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	suite := testhelpers.NewTestSuite(t)
	suite.AllowAllPublishes()
	cfg := testhelpers.DefaultSecurityConfig()

	suite.SecurityConfig.On("UpdateGlobalVersion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(*security.Config) error)
			require.NoError(t, fn(cfg))
		}).
		Return(cfg, nil)

	handler := newTriggerGlobalRotationHandler(suite)

	got, err := handler.Handle(context.Background(), commands.TriggerGlobalRotationCommand{
		AdminID: "admin-1",
		Reason:  "credential_leak",
	})

	require.NoError(t, err)
	require.Equal(t, 0, got.PreviousVersion)
	require.Equal(t, 1, got.NewVersion)
	require.Equal(t, 1, cfg.GlobalMinTokenVersion)
}
