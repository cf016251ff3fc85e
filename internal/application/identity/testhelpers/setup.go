package testhelpers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/dashtam/core/internal/domain/identity"
)

// TestSuite encapsulates all mocks and test dependencies for application layer tests.
// Use NewTestSuite to create a properly initialized test suite with all mocks.
type TestSuite struct {
	// Domain Layer Mocks
	UserRepo *MockUserRepository

	// JWT / Token Security Mocks
	JWTService      *MockJWTService
	TokenBlacklist  *MockTokenBlacklist
	RefreshTokens   *MockRefreshTokenRepository
	EmailVerifs     *MockEmailVerificationRepository
	PasswordResets  *MockPasswordResetRepository
	SecurityConfig  *MockSecurityConfigRepository

	// Session Management Mocks
	Sessions     *MockSessionRepository
	SessionCache *MockSessionCache

	// Event Publishing Mock
	EventPublisher *MockEventPublisher

	// Password Reset Email Mock
	PasswordResetMailer *MockPasswordResetMailer

	// Logger for handlers (no-op logger for tests)
	Logger zerolog.Logger

	// Testing context
	t *testing.T
}

// NewTestSuite creates a new test suite with all mocks initialized.
// This is the recommended way to set up tests for application layer handlers.
//
// Example:
//
//	func TestMyCommand(t *testing.T) {
//	    suite := testhelpers.NewTestSuite(t)
//	    // Configure mocks
//	    suite.UserRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
//	    // Run test
//	    // ...
//	    // Verify expectations
//	    suite.AssertExpectations()
//	}
func NewTestSuite(t *testing.T) *TestSuite {
	return &TestSuite{
		UserRepo:       new(MockUserRepository),
		JWTService:     new(MockJWTService),
		TokenBlacklist: new(MockTokenBlacklist),
		RefreshTokens:  new(MockRefreshTokenRepository),
		EmailVerifs:    new(MockEmailVerificationRepository),
		PasswordResets: new(MockPasswordResetRepository),
		SecurityConfig: new(MockSecurityConfigRepository),
		Sessions:       new(MockSessionRepository),
		SessionCache:   new(MockSessionCache),
		EventPublisher:      new(MockEventPublisher),
		PasswordResetMailer: new(MockPasswordResetMailer),
		Logger:              zerolog.Nop(), // No-op logger for tests
		t:                   t,
	}
}

// AssertExpectations asserts that all mocks had their expected methods called.
// Call this at the end of each test to verify all mock expectations were met.
func (s *TestSuite) AssertExpectations() {
	s.UserRepo.AssertExpectations(s.t)
	s.JWTService.AssertExpectations(s.t)
	s.TokenBlacklist.AssertExpectations(s.t)
	s.RefreshTokens.AssertExpectations(s.t)
	s.EmailVerifs.AssertExpectations(s.t)
	s.PasswordResets.AssertExpectations(s.t)
	s.SecurityConfig.AssertExpectations(s.t)
	s.Sessions.AssertExpectations(s.t)
	s.SessionCache.AssertExpectations(s.t)
	s.EventPublisher.AssertExpectations(s.t)
	s.PasswordResetMailer.AssertExpectations(s.t)
}

// AllowAllPublishes configures the event publisher mock to accept any
// number of Publish calls with any arguments. Most command tests don't
// assert on the exact event stream, only on the final handler outcome.
func (s *TestSuite) AllowAllPublishes() {
	s.EventPublisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return()
}

// SetupSuccessfulUserCreation configures mocks for a successful user registration.
func (s *TestSuite) SetupSuccessfulUserCreation() {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("Save", mock.Anything, mock.Anything).
		Return(nil)
	s.EmailVerifs.On("Save", mock.Anything, mock.Anything).
		Return(nil)
}

// SetupSuccessfulLogin configures mocks for a successful authenticate step.
func (s *TestSuite) SetupSuccessfulLogin(user *identity.User) {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(user, nil)
	s.UserRepo.On("Save", mock.Anything, mock.Anything).
		Return(nil)
}

// SetupUserNotFound configures mocks to return "user not found" error.
func (s *TestSuite) SetupUserNotFound() {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByID", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(nil, identity.ErrUserNotFound)
}

// SetupEmailAlreadyExists configures mocks to simulate duplicate email.
func (s *TestSuite) SetupEmailAlreadyExists(existingUser *identity.User) {
	s.UserRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(existingUser, nil)
}

// SetupUsernameAlreadyExists configures mocks to simulate duplicate username.
func (s *TestSuite) SetupUsernameAlreadyExists(existingUser *identity.User) {
	s.UserRepo.On("FindByUsername", mock.Anything, mock.Anything).
		Return(existingUser, nil)
}
