package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	reset time.Time
}

// MemoryLimiter keeps fixed windows in a map guarded by a mutex. Expired
// windows are swept at most once per window length.
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int
	length    time.Duration
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter(limit int, length time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:     limit,
		length:    length,
		windows:   map[string]*window{},
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.length {
		for k, w := range l.windows {
			if !now.Before(w.reset) {
				delete(l.windows, k)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		l.windows[key] = &window{count: 1, reset: now.Add(l.length)}
		return true, 0, nil
	}

	if w.count >= l.limit {
		return false, w.reset.Sub(now), nil
	}
	w.count++
	return true, 0, nil
}
