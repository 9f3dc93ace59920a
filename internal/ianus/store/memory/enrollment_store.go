package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/store"
)

// EnrollmentStore is an in-memory append-only audit log of access
// decisions.  Intended for tests and dev environments.
type EnrollmentStore struct {
	mu   sync.Mutex
	recs []store.EnrollmentRecord
}

func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{}
}

func (s *EnrollmentStore) RecordEnrollment(_ context.Context, rec store.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *EnrollmentStore) UnconfirmedSince(_ context.Context, since time.Time, limit int) ([]store.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.EnrollmentRecord
	for i := len(s.recs) - 1; i >= 0; i-- {
		rec := s.recs[i]
		if rec.Confirmed || rec.UserID == nil || rec.DecidedAt.Before(since) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *EnrollmentStore) RecentByRoom(_ context.Context, roomID uuid.UUID, limit int) ([]store.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.EnrollmentRecord
	for i := len(s.recs) - 1; i >= 0; i-- {
		rec := s.recs[i]
		if rec.RoomID == nil || *rec.RoomID != roomID {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Enrollments returns a copy of all recorded enrollments.  Test-only helper.
func (s *EnrollmentStore) Enrollments() []store.EnrollmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.EnrollmentRecord, len(s.recs))
	copy(out, s.recs)
	return out
}
