// Package learning holds the feedback state accumulated from served
// interactions: the persisted global term-weight table biasing lexical
// scoring, and the bounded per-client conversation history.
package learning

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
)

// BoostIncrement is added to each query term weight per served interaction.
// Weights never decay, so they are monotonically non-decreasing.
const BoostIncrement = 0.05

// boostSnapshot is the persisted whole-file layout.
type boostSnapshot struct {
	Boost map[string]float64 `json:"boost"`
}

// BoostStore is the persisted term -> weight table. The snapshot file is
// rewritten wholesale after every mutation; writes are best-effort and a
// failure is logged, never surfaced. Single-writer: no cross-process locking.
type BoostStore struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	boost map[string]float64
}

// NewBoostStore creates the store and loads the snapshot at path if present.
func NewBoostStore(path string, logger *zap.Logger) *BoostStore {
	s := &BoostStore{
		path:   path,
		logger: logger,
		boost:  make(map[string]float64),
	}
	s.load()
	return s
}

// Boost returns the accumulated weight for term, zero if unobserved.
func (s *BoostStore) Boost(term string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boost[term]
}

// Observe adds BoostIncrement to every term and persists the snapshot.
func (s *BoostStore) Observe(terms []string) {
	s.mu.Lock()
	for _, t := range terms {
		s.boost[t] += BoostIncrement
	}
	data, err := json.Marshal(boostSnapshot{Boost: s.boost})
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Failed to encode learned boost", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Warn("Failed to persist learned boost", zap.String("path", s.path), zap.Error(err))
	}
}

// Snapshot returns a copy of the full table, for inspection and tests.
func (s *BoostStore) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.boost))
	for k, v := range s.boost {
		out[k] = v
	}
	return out
}

func (s *BoostStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read learned boost snapshot", zap.String("path", s.path), zap.Error(err))
		}
		return
	}
	var snap boostSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("Ignoring malformed learned boost snapshot",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	if snap.Boost != nil {
		s.boost = snap.Boost
	}
	s.logger.Info("Learned boost loaded",
		zap.String("path", s.path), zap.Int("terms", len(s.boost)))
}
