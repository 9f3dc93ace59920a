package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

type DeviceStore struct {
	mu    sync.RWMutex
	known map[string]struct{}
	seen  map[string]time.Time
}

func NewDeviceStore(knownDevices []string) *DeviceStore {
	k := make(map[string]struct{}, len(knownDevices))
	for _, id := range knownDevices {
		id = strings.TrimSpace(id)
		if id != "" {
			k[id] = struct{}{}
		}
	}
	return &DeviceStore{
		known: k,
		seen:  make(map[string]time.Time),
	}
}

func (s *DeviceStore) IsKnown(_ context.Context, hardwareID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.known[hardwareID]
	return ok, nil
}

func (s *DeviceStore) MarkSeen(_ context.Context, hardwareID string, _ bool, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[hardwareID] = t
	return nil
}

// LastSeen reports the recorded last-contact time.  Test-only helper.
func (s *DeviceStore) LastSeen(hardwareID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.seen[hardwareID]
	return t, ok
}
