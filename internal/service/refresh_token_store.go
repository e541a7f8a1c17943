package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 500 * time.Millisecond

// RefreshTokenStore registra los jti de refresh tokens vigentes.
type RefreshTokenStore interface {
	Store(ctx context.Context, jti, userID string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

type memoryRefreshTokenStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		expires: make(map[string]time.Time),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryRefreshTokenStore) Store(_ context.Context, jti, _ string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[jti] = s.now().Add(ttl)
	return nil
}

func (s *memoryRefreshTokenStore) Exists(_ context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[jti]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.expires, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryRefreshTokenStore) Revoke(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, strings.TrimSpace(jti))
	return nil
}

// redisKV es el subconjunto de *redis.Client que usa el store.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRefreshTokenStore struct {
	client     redisKV
	prefix     string
	defaultTTL time.Duration
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client:     client,
		prefix:     "auth:refresh:",
		defaultTTL: 30 * 24 * time.Hour,
	}
}

func (s *redisRefreshTokenStore) key(jti string) (string, bool) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", false
	}
	return s.prefix + jti, true
}

func (s *redisRefreshTokenStore) Store(ctx context.Context, jti, userID string, ttl time.Duration) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, key, userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(ctx context.Context, jti string) (bool, error) {
	key, ok := s.key(jti)
	if !ok {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	key, ok := s.key(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, key).Err()
}
