// Package memory provides in-memory store backends for tests and dev.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ianus-labs/ianus/server/internal/ianus/store"
)

// HeartbeatStore keeps the latest heartbeat per scanner plus an
// append-only history for retention pruning.
type HeartbeatStore struct {
	mu      sync.RWMutex
	latest  map[string]store.HeartbeatRecord
	history []store.HeartbeatRecord
}

func NewHeartbeatStore() *HeartbeatStore {
	return &HeartbeatStore{
		latest: make(map[string]store.HeartbeatRecord),
	}
}

func (s *HeartbeatStore) UpsertHeartbeat(_ context.Context, hardwareID string, rec store.HeartbeatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	s.latest[hardwareID] = rec
	s.history = append(s.history, rec)
	return nil
}

func (s *HeartbeatStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.history[:0]
	var deleted int64
	for _, rec := range s.history {
		if rec.ReceivedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.history = kept
	return deleted, nil
}

// HistoryLen reports retained history size.  Test-only helper.
func (s *HeartbeatStore) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
