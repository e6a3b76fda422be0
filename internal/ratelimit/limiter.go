// Package ratelimit implements fixed-window per-client admission control.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultPerMinute is the default per-client request budget.
const DefaultPerMinute = 10

// pruneWindow is how far back buckets are kept before opportunistic pruning.
const pruneWindow = 5

type bucket struct {
	client string
	minute int64
}

// Limiter counts requests per (client, wall-clock minute). This is a
// fixed-window approximation: a client can burst up to 2x the limit across
// a bucket boundary.
type Limiter struct {
	limit int

	mu      sync.Mutex
	buckets map[bucket]int
	now     func() time.Time
}

// New creates a limiter admitting limit requests per client per minute.
// limit <= 0 falls back to DefaultPerMinute.
func New(limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultPerMinute
	}
	return &Limiter{
		limit:   limit,
		buckets: make(map[bucket]int),
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow admits or rejects one request for client. A request is rejected
// when its bucket already holds limit admissions; otherwise the bucket is
// incremented. Buckets older than five minutes are pruned on each call.
func (l *Limiter) Allow(client string) bool {
	minute := l.now().Unix() / 60

	l.mu.Lock()
	defer l.mu.Unlock()

	key := bucket{client: client, minute: minute}
	if l.buckets[key] >= l.limit {
		l.pruneLocked(minute)
		return false
	}
	l.buckets[key]++
	l.pruneLocked(minute)
	return true
}

func (l *Limiter) pruneLocked(minute int64) {
	for key := range l.buckets {
		if key.minute < minute-pruneWindow {
			delete(l.buckets, key)
		}
	}
}
