package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// INCR + EXPIRE atómico: la ventana arranca con el primer fallo.
const redisFailScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisLimiterClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisRateLimiter struct {
	client redisLimiterClient
	window time.Duration
	max    int
	prefix string
	logger *zap.Logger
}

// NewRedisRateLimiter comparte el conteo entre instancias. Si redis falla deja pasar.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) RateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "auth:login:rl:",
		logger: logger,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	key = normalizeLimiterKey(key)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	count, err := l.client.Get(ctx, l.prefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	return count < l.max
}

func (l *redisRateLimiter) Fail(ctx context.Context, key string) {
	if l == nil || l.client == nil {
		return
	}
	key = normalizeLimiterKey(key)
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	if err := l.client.Eval(ctx, redisFailScript, []string{l.prefix + key}, seconds).Err(); err != nil {
		l.logger.Warn("rate limiter record failed", zap.Error(err))
	}
}

func (l *redisRateLimiter) Reset(ctx context.Context, key string) {
	if l == nil || l.client == nil {
		return
	}
	key = normalizeLimiterKey(key)
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := l.client.Del(ctx, l.prefix+key).Err(); err != nil {
		l.logger.Warn("rate limiter reset failed", zap.Error(err))
	}
}
