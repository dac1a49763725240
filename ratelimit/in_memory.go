package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryLimiter is the in-process counterpart of the redis limiter, used in
// inmemory mode and in tests. Same admission rule: only accepted requests
// occupy the window.
type InMemoryLimiter struct {
	mut      sync.Mutex
	accepted map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func CreateInMemoryLimiter(limit int, window time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		accepted: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (l *InMemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mut.Lock()
	defer l.mut.Unlock()

	now := l.now()
	kept := l.accepted[key][:0]
	for _, t := range l.accepted[key] {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.limit {
		l.accepted[key] = kept
		return false, nil
	}
	l.accepted[key] = append(kept, now)
	return true, nil
}
