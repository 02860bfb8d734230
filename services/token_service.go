package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PurposeVerifyEmail   = "verify"
	PurposePasswordReset = "reset"

	OneTimeTokenTTL = 15 * time.Minute
)

// TokenStore holds revoked token ids and single-use tokens.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	SaveOneTime(ctx context.Context, purpose, token, subject string, ttl time.Duration) error
	// ConsumeOneTime returns the subject and deletes the token. A missing or
	// expired token yields ErrInvalidToken.
	ConsumeOneTime(ctx context.Context, purpose, token string) (string, error)
}

func revokedKey(jti string) string { return "revoked:" + jti }

func oneTimeKey(purpose, token string) string { return fmt.Sprintf("otp:%s:%s", purpose, token) }

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) SaveOneTime(ctx context.Context, purpose, token, subject string, ttl time.Duration) error {
	return s.client.Set(ctx, oneTimeKey(purpose, token), subject, ttl).Err()
}

func (s *RedisTokenStore) ConsumeOneTime(ctx context.Context, purpose, token string) (string, error) {
	subject, err := s.client.GetDel(ctx, oneTimeKey(purpose, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return subject, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is the single-process fallback used when Redis is not
// configured.
type MemoryTokenStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{data: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryTokenStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
}

func (s *MemoryTokenStore) get(key string, consume bool) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", false
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, key)
		return "", false
	}
	if consume {
		delete(s.data, key)
	}
	return e.value, true
}

func (s *MemoryTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		s.set(revokedKey(jti), "1", ttl)
	}
	return nil
}

func (s *MemoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.get(revokedKey(jti), false)
	return ok, nil
}

func (s *MemoryTokenStore) SaveOneTime(_ context.Context, purpose, token, subject string, ttl time.Duration) error {
	s.set(oneTimeKey(purpose, token), subject, ttl)
	return nil
}

func (s *MemoryTokenStore) ConsumeOneTime(_ context.Context, purpose, token string) (string, error) {
	v, ok := s.get(oneTimeKey(purpose, token), true)
	if !ok {
		return "", ErrInvalidToken
	}
	return v, nil
}
