package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// EnrollmentRecord captures one terminal access decision for the audit
// log.  FingerprintID/UserID/RoomID are nullable: a denied attempt has a
// null room, and future outcome classes may carry no resolved user.
//
// The user name and room/building numbers are denormalized at write time —
// the reporting side groups by them and must not depend on directory rows
// still existing (or still saying the same thing) later.
type EnrollmentRecord struct {
	ID            uuid.UUID
	FingerprintID *uuid.UUID
	UserID        *uuid.UUID
	RoomID        *uuid.UUID

	HardwareID string
	Slot       types.FingerSlot
	Confirmed  bool
	Reason     types.DecisionReason

	UserFirstName  string
	UserLastName   string
	RoomNumber     *int
	BuildingNumber *int

	DecidedAt time.Time
}

// EnrollmentStore persists access decisions as an append-only audit log.
// No update or delete operations are exposed to the engine.
type EnrollmentStore interface {
	RecordEnrollment(ctx context.Context, rec EnrollmentRecord) error
}

// EnrollmentReporter is the read side consumed by reporting endpoints.
// Kept separate from EnrollmentStore so the engine's write dependency
// stays append-only.
type EnrollmentReporter interface {
	// UnconfirmedSince lists denied attempts with a resolved user since
	// the given instant, newest first ("late control" style report).
	UnconfirmedSince(ctx context.Context, since time.Time, limit int) ([]EnrollmentRecord, error)

	// RecentByRoom lists attempts for one room, newest first.
	RecentByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]EnrollmentRecord, error)
}
