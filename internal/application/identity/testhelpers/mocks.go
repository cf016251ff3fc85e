package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dashtam/core/internal/domain/identity"
	"github.com/dashtam/core/internal/domain/security"
	"github.com/dashtam/core/internal/domain/session"
	"github.com/dashtam/core/internal/domain/shared"
	"github.com/dashtam/core/internal/domain/token"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/security/jwt"
)

// MockUserRepository is a mock implementation of identity.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NextID generates a new UserID.
func (m *MockUserRepository) NextID() identity.UserID {
	args := m.Called()
	return args.Get(0).(identity.UserID)
}

// FindByID retrieves a user by ID.
func (m *MockUserRepository) FindByID(ctx context.Context, id identity.UserID) (*identity.User, error) {
	args := m.Called(ctx, id)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByID: %w", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by email.
func (m *MockUserRepository) FindByEmail(ctx context.Context, email identity.Email) (*identity.User, error) {
	args := m.Called(ctx, email)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByEmail: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username.
func (m *MockUserRepository) FindByUsername(ctx context.Context, username identity.Username) (*identity.User, error) {
	args := m.Called(ctx, username)
	var user *identity.User
	if args.Get(0) != nil {
		user = args.Get(0).(*identity.User)
	}
	if err := args.Error(1); err != nil {
		return user, fmt.Errorf("mock FindByUsername: %w", err)
	}
	return user, nil
}

// Save persists a user.
func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Delete removes a user.
func (m *MockUserRepository) Delete(ctx context.Context, id identity.UserID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of session.Repository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, s *session.Data) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Data, error) {
	args := m.Called(ctx, id)
	var s *session.Data
	if args.Get(0) != nil {
		s = args.Get(0).(*session.Data)
	}
	return s, args.Error(1)
}

func (m *MockSessionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*session.Data, error) {
	args := m.Called(ctx, userID, activeOnly)
	var sessions []*session.Data
	if args.Get(0) != nil {
		sessions = args.Get(0).([]*session.Data)
	}
	return sessions, args.Error(1)
}

func (m *MockSessionRepository) FindByRefreshTokenID(ctx context.Context, refreshTokenID uuid.UUID) (*session.Data, error) {
	args := m.Called(ctx, refreshTokenID)
	var s *session.Data
	if args.Get(0) != nil {
		s = args.Get(0).(*session.Data)
	}
	return s, args.Error(1)
}

func (m *MockSessionRepository) CountActiveSessions(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason session.RevocationReason, exceptSessionID *uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, reason, exceptSessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) GetOldestActiveSession(ctx context.Context, userID uuid.UUID) (*session.Data, error) {
	args := m.Called(ctx, userID)
	var s *session.Data
	if args.Get(0) != nil {
		s = args.Get(0).(*session.Data)
	}
	return s, args.Error(1)
}

func (m *MockSessionRepository) CleanupExpiredSessions(ctx context.Context, before time.Time) (int, error) {
	args := m.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

// MockSessionCache is a mock implementation of session.Cache.
type MockSessionCache struct {
	mock.Mock
}

func (m *MockSessionCache) Get(ctx context.Context, id uuid.UUID) (*session.Data, error) {
	args := m.Called(ctx, id)
	var s *session.Data
	if args.Get(0) != nil {
		s = args.Get(0).(*session.Data)
	}
	return s, args.Error(1)
}

func (m *MockSessionCache) Set(ctx context.Context, s *session.Data, ttl time.Duration) error {
	args := m.Called(ctx, s, ttl)
	return args.Error(0)
}

func (m *MockSessionCache) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionCache) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionCache) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionCache) GetUserSessionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	var ids []uuid.UUID
	if args.Get(0) != nil {
		ids = args.Get(0).([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *MockSessionCache) AddUserSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockSessionCache) RemoveUserSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockSessionCache) UpdateLastActivity(ctx context.Context, id uuid.UUID, ip string) error {
	args := m.Called(ctx, id, ip)
	return args.Error(0)
}

// MockRefreshTokenRepository is a mock implementation of token.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Save(ctx context.Context, r *token.RefreshTokenData) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByVerification(ctx context.Context, plain string) (*token.RefreshTokenData, error) {
	args := m.Called(ctx, plain)
	var r *token.RefreshTokenData
	if args.Get(0) != nil {
		r = args.Get(0).(*token.RefreshTokenData)
	}
	return r, args.Error(1)
}

func (m *MockRefreshTokenRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*token.RefreshTokenData, error) {
	args := m.Called(ctx, sessionID)
	var r *token.RefreshTokenData
	if args.Get(0) != nil {
		r = args.Get(0).(*token.RefreshTokenData)
	}
	return r, args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteForSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockEmailVerificationRepository is a mock implementation of token.EmailVerificationRepository.
type MockEmailVerificationRepository struct {
	mock.Mock
}

func (m *MockEmailVerificationRepository) Save(ctx context.Context, t *token.EmailVerificationToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockEmailVerificationRepository) FindByToken(ctx context.Context, plain string) (*token.EmailVerificationToken, error) {
	args := m.Called(ctx, plain)
	var t *token.EmailVerificationToken
	if args.Get(0) != nil {
		t = args.Get(0).(*token.EmailVerificationToken)
	}
	return t, args.Error(1)
}

// MockPasswordResetRepository is a mock implementation of token.PasswordResetRepository.
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Save(ctx context.Context, t *token.PasswordResetToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) FindByToken(ctx context.Context, plain string) (*token.PasswordResetToken, error) {
	args := m.Called(ctx, plain)
	var t *token.PasswordResetToken
	if args.Get(0) != nil {
		t = args.Get(0).(*token.PasswordResetToken)
	}
	return t, args.Error(1)
}

func (m *MockPasswordResetRepository) CountRecentForUser(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

// MockSecurityConfigRepository is a mock implementation of security.Repository.
type MockSecurityConfigRepository struct {
	mock.Mock
}

func (m *MockSecurityConfigRepository) Get(ctx context.Context) (*security.Config, error) {
	args := m.Called(ctx)
	var cfg *security.Config
	if args.Get(0) != nil {
		cfg = args.Get(0).(*security.Config)
	}
	return cfg, args.Error(1)
}

func (m *MockSecurityConfigRepository) UpdateGlobalVersion(ctx context.Context, fn func(*security.Config) error) (*security.Config, error) {
	args := m.Called(ctx, fn)
	var cfg *security.Config
	if args.Get(0) != nil {
		cfg = args.Get(0).(*security.Config)
	}
	return cfg, args.Error(1)
}

// MockJWTService is a mock implementation of appidentity.JWTService.
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessToken(userID, email string, roles []string, sessionID string, tokenVersion int) (string, error) {
	args := m.Called(userID, email, roles, sessionID, tokenVersion)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	args := m.Called(tokenString)
	var claims *jwt.Claims
	if args.Get(0) != nil {
		claims = args.Get(0).(*jwt.Claims)
	}
	return claims, args.Error(1)
}

func (m *MockJWTService) ExtractTokenID(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) GetTokenExpiration(tokenString string) (time.Time, error) {
	args := m.Called(tokenString)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockTokenBlacklist is a mock implementation of appidentity.TokenBlacklist.
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenBlacklist) Remove(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of appidentity.EventPublisher.
// Publish is fail-open by contract, so the mock records the call but never
// forces the caller to stub a return value.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt shared.DomainEvent, pub *eventbus.PublishContext) {
	m.Called(ctx, evt, pub)
}

// MockPasswordResetMailer is a mock implementation of appidentity.PasswordResetMailer.
type MockPasswordResetMailer struct {
	mock.Mock
}

func (m *MockPasswordResetMailer) SendResetEmail(ctx context.Context, userID, email, token string) error {
	args := m.Called(ctx, userID, email, token)
	return args.Error(0)
}
