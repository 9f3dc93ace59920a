// Package matcher defines the contract the decision engine has with the
// biometric identification backend.  The backend owns the recognition
// algorithm; the engine only sees opaque templates, ranked matches, and a
// three-way identification status.
package matcher

import (
	"context"

	"github.com/google/uuid"
)

// Template is a matcher-specific encoded representation of fingerprint
// minutiae.  It is opaque to the engine and the stores.
type Template []byte

// GalleryEntry is one candidate submitted for 1:N identification.
type GalleryEntry struct {
	FingerprintID uuid.UUID
	UserID        uuid.UUID
	Template      Template
}

// ScoredMatch is one ranked identification candidate.  Score is 0-100.
type ScoredMatch struct {
	FingerprintID uuid.UUID
	UserID        uuid.UUID
	Score         int
}

// Status is the outcome class of an identification run.
type Status int

const (
	// StatusOK — at least one candidate scored above the matcher's
	// threshold.  Matches is non-empty; no ranking order is guaranteed.
	StatusOK Status = iota

	// StatusNoMatch — identification ran to completion but nothing
	// scored above threshold.  A legitimate "not recognized" outcome.
	StatusNoMatch

	// StatusError — the matcher could not run identification at all
	// (no enrollable candidates, internal failure).
	StatusError
)

// IdentifyResult bundles the status with the candidate list.
type IdentifyResult struct {
	Status  Status
	Matches []ScoredMatch
}

// Matcher is a single identification session.  Sessions carry implicit
// mutable state (last capture, threshold/speed settings), so at most one
// access attempt may use a Matcher at a time — serialize through a
// SessionGuard rather than calling one directly.
type Matcher interface {
	// ExtractTemplate turns a raw capture into a template.  An error
	// means the capture was unusable (template creation failed).
	ExtractTemplate(ctx context.Context, capture []byte) (Template, error)

	// Identify scores probe against the gallery.  The error return is
	// for transport-level failures only; algorithmic outcomes travel in
	// IdentifyResult.Status.
	Identify(ctx context.Context, probe Template, gallery []GalleryEntry) (IdentifyResult, error)

	// ClearSession drops any state left over from a previous attempt.
	ClearSession(ctx context.Context) error
}
