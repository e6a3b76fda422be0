package learning

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// History bounds.
const (
	maxInteractions = 5
	contextWindow   = 3
	excerptLen      = 100

	// clientIdleTimeout is how long an inactive client's history survives.
	clientIdleTimeout = time.Hour
)

// Interaction is one served (query, response) pair.
type Interaction struct {
	Query     string
	Response  string
	Timestamp time.Time
}

type clientHistory struct {
	interactions []Interaction
	lastSeen     time.Time
}

// HistoryStore keeps the five most recent interactions per client and
// builds the short context window handed to the composer.
type HistoryStore struct {
	mu      sync.Mutex
	clients map[string]*clientHistory
	now     func() time.Time
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		clients: make(map[string]*clientHistory),
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (h *HistoryStore) WithClock(now func() time.Time) *HistoryStore {
	h.now = now
	return h
}

// Append records one interaction, capping the client at five entries and
// pruning clients idle for over an hour.
func (h *HistoryStore) Append(client, query, response string) {
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.clients[client]
	if !ok {
		ch = &clientHistory{}
		h.clients[client] = ch
	}
	ch.interactions = append(ch.interactions, Interaction{
		Query:     query,
		Response:  response,
		Timestamp: now,
	})
	if len(ch.interactions) > maxInteractions {
		ch.interactions = ch.interactions[len(ch.interactions)-maxInteractions:]
	}
	ch.lastSeen = now

	for id, c := range h.clients {
		if now.Sub(c.lastSeen) > clientIdleTimeout {
			delete(h.clients, id)
		}
	}
}

// Context renders the last three interactions as the follow-up context
// window. Returns "" for an unknown client.
func (h *HistoryStore) Context(client string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.clients[client]
	if !ok {
		return ""
	}

	recent := ch.interactions
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}

	var b strings.Builder
	for _, it := range recent {
		fmt.Fprintf(&b, "Previous question: %s\n", it.Query)
		// Responses are routinely Devanagari; cut on a rune boundary so
		// the context window stays valid UTF-8.
		excerpt := it.Response
		if utf8.RuneCountInString(excerpt) > excerptLen {
			excerpt = string([]rune(excerpt)[:excerptLen])
		}
		fmt.Fprintf(&b, "Previous answer: %s...\n", excerpt)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Len returns the number of interactions stored for client.
func (h *HistoryStore) Len(client string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[client]; ok {
		return len(ch.interactions)
	}
	return 0
}
