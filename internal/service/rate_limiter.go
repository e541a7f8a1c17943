package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// RateLimiter cuenta intentos fallidos por clave dentro de una ventana de tiempo.
// Allow solo consulta; el presupuesto se consume con Fail y se libera con Reset.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
	Fail(ctx context.Context, key string)
	Reset(ctx context.Context, key string)
}

type memoryRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryRateLimiter crea un limitador de ventana deslizante en memoria.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) bool {
	key = normalizeLimiterKey(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pruneLocked(key)) < l.max
}

func (l *memoryRateLimiter) Fail(_ context.Context, key string) {
	key = normalizeLimiterKey(key)
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits[key] = append(l.pruneLocked(key), l.now())
}

func (l *memoryRateLimiter) Reset(_ context.Context, key string) {
	key = normalizeLimiterKey(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
}

// pruneLocked descarta intentos fuera de la ventana; una clave sin intentos se elimina del mapa.
func (l *memoryRateLimiter) pruneLocked(key string) []time.Time {
	entries, ok := l.hits[key]
	if !ok {
		return nil
	}
	cutoff := l.now().Add(-l.window)
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}

func normalizeLimiterKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
