package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dashtam/core/internal/domain/session"
)

const (
	// sessionKeyPrefix is the Redis key prefix for session data.
	sessionKeyPrefix = "dashtam:session:"
	// userSessionsKeyPrefix is the Redis key prefix for tracking all sessions for a user.
	userSessionsKeyPrefix = "dashtam:user:sessions:"
)

// cachedSession is the JSON wire shape stored under sessionKeyPrefix,
// mirroring session.Data so it round-trips without a lossy adapter struct.
type cachedSession struct {
	ID                      uuid.UUID  `json:"id"`
	UserID                  uuid.UUID  `json:"user_id"`
	DeviceInfo              string     `json:"device_info"`
	UserAgent               string     `json:"user_agent"`
	IPAddress               string     `json:"ip_address"`
	LastIPAddress           string     `json:"last_ip_address"`
	Location                string     `json:"location"`
	CreatedAt               time.Time  `json:"created_at"`
	LastActivityAt          time.Time  `json:"last_activity_at"`
	ExpiresAt               time.Time  `json:"expires_at"`
	Revoked                 bool       `json:"revoked"`
	RevokedAt               *time.Time `json:"revoked_at,omitempty"`
	RevokedReason           string     `json:"revoked_reason,omitempty"`
	Trusted                 bool       `json:"trusted"`
	RefreshTokenID          *uuid.UUID `json:"refresh_token_id,omitempty"`
	SuspiciousActivityCount int        `json:"suspicious_activity_count"`
	ProviderAccessToken     string     `json:"provider_access_token,omitempty"`
	ProviderRefreshToken    string     `json:"provider_refresh_token,omitempty"`
	ProviderTokenExpiresAt  *time.Time `json:"provider_token_expires_at,omitempty"`
}

func toCachedSession(s *session.Data) cachedSession {
	return cachedSession{
		ID:                      s.ID,
		UserID:                  s.UserID,
		DeviceInfo:              s.DeviceInfo,
		UserAgent:               s.UserAgent,
		IPAddress:               s.IPAddress,
		LastIPAddress:           s.LastIPAddress,
		Location:                s.Location,
		CreatedAt:               s.CreatedAt,
		LastActivityAt:          s.LastActivityAt,
		ExpiresAt:               s.ExpiresAt,
		Revoked:                 s.Revoked,
		RevokedAt:               s.RevokedAt,
		RevokedReason:           string(s.RevokedReason),
		Trusted:                 s.Trusted,
		RefreshTokenID:          s.RefreshTokenID,
		SuspiciousActivityCount: s.SuspiciousActivityCount,
		ProviderAccessToken:     s.ProviderAccessToken,
		ProviderRefreshToken:    s.ProviderRefreshToken,
		ProviderTokenExpiresAt:  s.ProviderTokenExpiresAt,
	}
}

func (c cachedSession) toData() *session.Data {
	return &session.Data{
		ID:                      c.ID,
		UserID:                  c.UserID,
		DeviceInfo:              c.DeviceInfo,
		UserAgent:               c.UserAgent,
		IPAddress:               c.IPAddress,
		LastIPAddress:           c.LastIPAddress,
		Location:                c.Location,
		CreatedAt:               c.CreatedAt,
		LastActivityAt:          c.LastActivityAt,
		ExpiresAt:               c.ExpiresAt,
		Revoked:                 c.Revoked,
		RevokedAt:               c.RevokedAt,
		RevokedReason:           session.RevocationReason(c.RevokedReason),
		Trusted:                 c.Trusted,
		RefreshTokenID:          c.RefreshTokenID,
		SuspiciousActivityCount: c.SuspiciousActivityCount,
		ProviderAccessToken:     c.ProviderAccessToken,
		ProviderRefreshToken:    c.ProviderRefreshToken,
		ProviderTokenExpiresAt:  c.ProviderTokenExpiresAt,
	}
}

// SessionStore implements session.Cache as a write-through cache over
// session.Data, keyed by session ID with a parallel per-user set of session
// IDs for fast membership lookups. It is authoritative only for reads; every
// write is expected to have already landed in the Postgres repository.
type SessionStore struct {
	redis *redis.Client
}

// NewSessionStore creates a new session store.
func NewSessionStore(redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		redis: redisClient,
	}
}

// Set stores s with the given TTL, replacing any prior cached entry.
func (s *SessionStore) Set(ctx context.Context, data *session.Data, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	payload, err := json.Marshal(toCachedSession(data))
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	key := sessionKeyPrefix + data.ID.String()
	if err := s.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Get retrieves a cached session by ID. Returns session.ErrCacheMiss if
// absent; callers fall through to the Repository on a miss.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*session.Data, error) {
	key := sessionKeyPrefix + id.String()

	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}

	return cached.toData(), nil
}

// Exists checks if a session is cached.
func (s *SessionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	key := sessionKeyPrefix + id.String()

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return exists > 0, nil
}

// Delete removes a single cached session.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	key := sessionKeyPrefix + id.String()
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser evicts every cached session ID tracked for userID, then
// clears the tracking set itself.
func (s *SessionStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	sessionIDs, err := s.GetUserSessionIDs(ctx, userID)
	if err != nil {
		return err
	}

	for _, sessionID := range sessionIDs {
		if err := s.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
		}
	}

	userSessionsKey := userSessionsKeyPrefix + userID.String()
	if err := s.redis.Del(ctx, userSessionsKey).Err(); err != nil {
		return fmt.Errorf("failed to delete user session set: %w", err)
	}

	return nil
}

// GetUserSessionIDs returns every session ID tracked for userID.
func (s *SessionStore) GetUserSessionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	userSessionsKey := userSessionsKeyPrefix + userID.String()

	raw, err := s.redis.SMembers(ctx, userSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user sessions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddUserSession tracks sessionID as belonging to userID.
func (s *SessionStore) AddUserSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	userSessionsKey := userSessionsKeyPrefix + userID.String()
	if err := s.redis.SAdd(ctx, userSessionsKey, sessionID.String()).Err(); err != nil {
		return fmt.Errorf("failed to add session to user set: %w", err)
	}
	return nil
}

// RemoveUserSession stops tracking sessionID as belonging to userID.
func (s *SessionStore) RemoveUserSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	userSessionsKey := userSessionsKeyPrefix + userID.String()
	if err := s.redis.SRem(ctx, userSessionsKey, sessionID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove session from user set: %w", err)
	}
	return nil
}

// UpdateLastActivity refreshes the cached session's LastActivityAt (and
// LastIPAddress, when ip is non-empty) in place, preserving the existing TTL.
func (s *SessionStore) UpdateLastActivity(ctx context.Context, id uuid.UUID, ip string) error {
	key := sessionKeyPrefix + id.String()

	ttl, err := s.redis.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read session ttl: %w", err)
	}
	if ttl <= 0 {
		return session.ErrCacheMiss
	}

	data, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	data.TouchActivity(ip)

	return s.Set(ctx, data, ttl)
}

// Count returns the number of cached sessions (for monitoring/debugging).
// Note: This uses SCAN which may be slow for large session stores.
func (s *SessionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	var cursor uint64

	for {
		var keys []string
		var err error

		keys, cursor, err = s.redis.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan session keys: %w", err)
		}

		count += int64(len(keys))

		if cursor == 0 {
			break
		}
	}

	return count, nil
}

// Clear removes all cached sessions (for testing purposes).
// WARNING: This uses SCAN and DEL which may be slow for large session stores.
func (s *SessionStore) Clear(ctx context.Context) error {
	var cursor uint64

	for {
		var keys []string
		var err error

		keys, cursor, err = s.redis.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan session keys: %w", err)
		}

		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete session keys: %w", err)
			}
		}

		if cursor == 0 {
			break
		}
	}

	cursor = 0
	for {
		var keys []string
		var err error

		keys, cursor, err = s.redis.Scan(ctx, cursor, userSessionsKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan user session keys: %w", err)
		}

		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete user session keys: %w", err)
			}
		}

		if cursor == 0 {
			break
		}
	}

	return nil
}
