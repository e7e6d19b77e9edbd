// pkg/ratelimit/memory.go

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter реализует Limiter поверх golang.org/x/time/rate: один
// token bucket на ключ. Для geocode-гейта (1 запрос/сек, burst 1) Wait
// сериализует конкурентных вызывающих без polling-цикла.
type MemoryLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*limiterEntry
	config   *Config
	stopCh   chan struct{}
	closed   bool
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(cfg *Config) *MemoryLimiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}

	l := &MemoryLimiter{
		limiters: make(map[string]*limiterEntry),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// limit переводит Requests-per-Window в tokens-per-second.
func (l *MemoryLimiter) limit() rate.Limit {
	return rate.Limit(float64(l.config.Requests) / l.config.Window.Seconds())
}

// burst: бакет вмещает Requests+BurstSize токенов, минимум 1.
func (l *MemoryLimiter) burst() int {
	b := l.config.Requests + l.config.BurstSize
	if b < 1 {
		b = 1
	}
	return b
}

func (l *MemoryLimiter) get(key string) (*rate.Limiter, error) {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil, ErrLimiterClosed
	}
	entry, ok := l.limiters[key]
	l.mu.RUnlock()

	if ok {
		l.mu.Lock()
		entry.lastSeen = time.Now()
		l.mu.Unlock()
		return entry.limiter, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrLimiterClosed
	}
	// Повторная проверка под write-lock
	if entry, ok = l.limiters[key]; !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit(), l.burst())}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter, nil
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.AllowN(ctx, key, 1)
}

func (l *MemoryLimiter) AllowN(ctx context.Context, key string, n int) (bool, error) {
	lim, err := l.get(key)
	if err != nil {
		return false, err
	}
	return lim.AllowN(time.Now(), n), nil
}

func (l *MemoryLimiter) Wait(ctx context.Context, key string) error {
	lim, err := l.get(key)
	if err != nil {
		return err
	}
	if err := lim.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (l *MemoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.limiters, key)
	return nil
}

func (l *MemoryLimiter) GetInfo(ctx context.Context, key string) (*LimitInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.limiters[key]
	if !ok {
		return &LimitInfo{
			Limit:     l.config.Requests,
			Remaining: l.config.Requests,
			ResetAt:   time.Now().Add(l.config.Window),
		}, nil
	}

	remaining := int(entry.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	if remaining > l.config.Requests {
		remaining = l.config.Requests
	}

	return &LimitInfo{
		Limit:     l.config.Requests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(l.config.Window),
	}, nil
}

func (l *MemoryLimiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	close(l.stopCh)
	l.limiters = nil

	return nil
}

func (l *MemoryLimiter) cleanup() {
	interval := l.config.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.doCleanup()
		}
	}
}

// doCleanup выбрасывает ключи, не использовавшиеся два окна подряд.
func (l *MemoryLimiter) doCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.config.Window * 2)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}
