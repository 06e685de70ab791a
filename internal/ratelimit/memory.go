package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with a per-key sliding window. Suitable
// for single-replica deployments; use the Redis limiter when scaling out.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	timestamps []time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*window)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, d time.Duration) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.windows[key]
	if w == nil {
		w = &window{}
		l.windows[key] = w
	}
	w.trim(now.Add(-d))

	if len(w.timestamps) >= limit {
		return &Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: w.timestamps[0].Add(d),
		}, nil
	}

	w.timestamps = append(w.timestamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.timestamps),
		ResetAt:   w.timestamps[0].Add(d),
	}, nil
}

func (w *window) trim(cutoff time.Time) {
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}
