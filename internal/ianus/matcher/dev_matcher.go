package matcher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"sync"
)

var (
	ErrEmptyCapture = errors.New("capture is empty")
)

// DevMatcher is a deterministic stand-in for a vendor fingerprint SDK so
// the whole access flow can run end-to-end in dev.  A "template" is the
// SHA-256 of the capture bytes; identification scores 100 for an exact
// template match and 0 otherwise.  It deliberately mimics the session
// behavior of a real SDK: the last probe is retained until ClearSession.
type DevMatcher struct {
	mu        sync.Mutex
	threshold int
	lastProbe Template
}

// NewDevMatcher creates a dev matcher with the given score threshold
// (0-100).  Values outside that range fall back to 70.
func NewDevMatcher(threshold int) *DevMatcher {
	if threshold <= 0 || threshold > 100 {
		threshold = 70
	}
	return &DevMatcher{threshold: threshold}
}

func (m *DevMatcher) ExtractTemplate(_ context.Context, capture []byte) (Template, error) {
	if len(capture) == 0 {
		return nil, ErrEmptyCapture
	}
	sum := sha256.Sum256(capture)

	m.mu.Lock()
	m.lastProbe = sum[:]
	m.mu.Unlock()

	return sum[:], nil
}

func (m *DevMatcher) Identify(_ context.Context, probe Template, gallery []GalleryEntry) (IdentifyResult, error) {
	if len(probe) == 0 {
		return IdentifyResult{Status: StatusError}, nil
	}
	if len(gallery) == 0 {
		// No enrollable candidates — identification cannot run.
		return IdentifyResult{Status: StatusError}, nil
	}

	var matches []ScoredMatch
	for _, entry := range gallery {
		score := 0
		if bytes.Equal(probe, entry.Template) {
			score = 100
		}
		if score >= m.threshold {
			matches = append(matches, ScoredMatch{
				FingerprintID: entry.FingerprintID,
				UserID:        entry.UserID,
				Score:         score,
			})
		}
	}

	if len(matches) == 0 {
		return IdentifyResult{Status: StatusNoMatch}, nil
	}
	return IdentifyResult{Status: StatusOK, Matches: matches}, nil
}

func (m *DevMatcher) ClearSession(_ context.Context) error {
	m.mu.Lock()
	m.lastProbe = nil
	m.mu.Unlock()
	return nil
}
