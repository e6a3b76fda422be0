// Package cache provides the content-addressed TTL caches shared by the
// request path: search results, composed responses, and derived research
// data. Entries live in process memory only and are dropped by sweep or
// restart.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Table TTLs and sweep bounds.
const (
	SearchTTL   = 5 * time.Minute
	ResponseTTL = 10 * time.Minute
	ResearchTTL = 30 * time.Minute

	sweepInterval = 10 * time.Minute
	sweepCutoff   = time.Hour
)

// Key derives the deterministic cache key from a normalized query and a
// context string.
func Key(query, context string) string {
	h := sha256.Sum256([]byte(query + ":" + context))
	return hex.EncodeToString(h[:])
}

type entry struct {
	createdAt time.Time
	value     any
}

// Table is one TTL-keyed cache table.
type Table struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	hits *prometheus.CounterVec
	now  func() time.Time
}

// Get returns the cached value if it exists and is younger than the TTL.
func (t *Table) Get(key string) (any, bool) {
	t.mu.RLock()
	e, ok := t.entries[key]
	t.mu.RUnlock()

	if !ok || t.now().Sub(e.createdAt) >= t.ttl {
		t.inc("miss")
		return nil, false
	}
	t.inc("hit")
	return e.value, true
}

// Put stores a value under key with the current timestamp.
func (t *Table) Put(key string, value any) {
	t.mu.Lock()
	t.entries[key] = entry{createdAt: t.now(), value: value}
	t.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table) inc(result string) {
	if t.hits != nil {
		t.hits.WithLabelValues(t.name, result).Inc()
	}
}

func (t *Table) removeOlderThan(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for key, e := range t.entries {
		if e.createdAt.Before(cutoff) {
			delete(t.entries, key)
			removed++
		}
	}
	return removed
}

// Manager owns the three cache tables and the periodic sweep.
type Manager struct {
	Search   *Table
	Response *Table
	Research *Table

	mu        sync.Mutex
	lastSweep time.Time
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.Search.now = now
		m.Response.now = now
		m.Research.now = now
	}
}

// WithTTLs overrides the per-table TTLs.
func WithTTLs(search, response, research time.Duration) Option {
	return func(m *Manager) {
		m.Search.ttl = search
		m.Response.ttl = response
		m.Research.ttl = research
	}
}

// NewManager creates the three cache tables. hits may be nil; otherwise it
// is a counter vec with labels (table, result).
func NewManager(hits *prometheus.CounterVec, opts ...Option) *Manager {
	m := &Manager{
		Search:   newTable("search", SearchTTL, hits),
		Response: newTable("response", ResponseTTL, hits),
		Research: newTable("research", ResearchTTL, hits),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func newTable(name string, ttl time.Duration, hits *prometheus.CounterVec) *Table {
	return &Table{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry),
		hits:    hits,
		now:     time.Now,
	}
}

// Sweep removes entries older than one hour from every table, at most once
// per ten minutes. It runs on the request path; any other call is a no-op.
// Returns the number of removed entries.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastSweep) < sweepInterval {
		m.mu.Unlock()
		return 0
	}
	m.lastSweep = now
	m.mu.Unlock()

	cutoff := now.Add(-sweepCutoff)
	removed := 0
	for _, t := range []*Table{m.Search, m.Response, m.Research} {
		removed += t.removeOlderThan(cutoff)
	}
	return removed
}
