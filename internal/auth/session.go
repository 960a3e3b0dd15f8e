package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "wallboard:session:"

// SessionStore tracks live token IDs so individual sessions can be revoked
// before their JWT expiry. A nil store degrades to stateless verification.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the redis client. Returns nil when client is nil so
// callers can treat the store as optional.
func NewSessionStore(client *redis.Client) *SessionStore {
	if client == nil {
		return nil
	}
	return &SessionStore{client: client}
}

// Track records an issued token ID for its full lifetime.
func (s *SessionStore) Track(ctx context.Context, tokenID, subjectID string, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	return s.client.Set(ctx, sessionKeyPrefix+tokenID, subjectID, ttl).Err()
}

// Alive reports whether the token ID still has a live session entry.
func (s *SessionStore) Alive(ctx context.Context, tokenID string) (bool, error) {
	if s == nil {
		return true, nil
	}
	_, err := s.client.Get(ctx, sessionKeyPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke drops the session entry, invalidating the token immediately.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	if s == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+tokenID).Err()
}
