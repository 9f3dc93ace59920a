package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the administrative role of a user.  The decision engine never
// consults it; it exists for the operator console's benefit.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is a person enrolled in the system.  Created and maintained by the
// administrative side; the engine only reads it.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Role      Role
}

// DisplayName renders the name shown to operators and on scanner displays.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Fingerprint is one stored biometric template.  Template is the opaque
// matcher-specific encoding; EncryptedImage is the original capture, held
// only for audit/operator review and never fed back into matching.
//
// At most one fingerprint exists per (user, slot) — enforced by the store.
type Fingerprint struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Slot           FingerSlot
	Template       []byte
	EncryptedImage []byte
	CreatedAt      time.Time
}

// Building groups rooms.  Number is the operator-facing building number
// used in reports.
type Building struct {
	ID     uuid.UUID
	Number int
	Name   string
}

// Room belongs to exactly one building and is optionally bound to at most
// one scanner device.  BuildingNumber is carried alongside so audit writes
// and reports do not need a second lookup.
type Room struct {
	ID             uuid.UUID
	BuildingID     uuid.UUID
	Number         int
	BuildingNumber int
	Name           string
}

// Device is a physical scanner.  Identity is the hardware id the scanner
// reports; a device exists independently of any room binding.
type Device struct {
	HardwareID     string
	RoomID         *uuid.UUID
	DisplayName    string
	Enabled        bool
	CommissionedAt *time.Time
	RevokedAt      *time.Time
	LastSeenAt     *time.Time
}
