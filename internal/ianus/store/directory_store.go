package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// TemplateStore reads stored fingerprint templates.  At most one template
// exists per (user, slot); the backing schema enforces it.
type TemplateStore interface {
	// FingerprintsBySlot returns every user's template for the given
	// slot — the identification gallery for a claimed finger.
	FingerprintsBySlot(ctx context.Context, slot types.FingerSlot) ([]types.Fingerprint, error)

	// FingerprintBySlotAndUser returns one user's template for the slot.
	FingerprintBySlotAndUser(ctx context.Context, slot types.FingerSlot, userID uuid.UUID) (types.Fingerprint, bool, error)
}

// UserStore reads enrolled users.
type UserStore interface {
	UserByID(ctx context.Context, id uuid.UUID) (types.User, bool, error)
}

// RoomStore resolves the room a scanner guards and the authorization set.
type RoomStore interface {
	// RoomForDevice follows the device→room binding.  found=false when
	// the device is unknown or unbound.
	RoomForDevice(ctx context.Context, hardwareID string) (types.Room, bool, error)

	// IsUserAuthorizedForRoom reports (user, room) membership.
	IsUserAuthorizedForRoom(ctx context.Context, userID, roomID uuid.UUID) (bool, error)
}

// Directory bundles the read-only lookups the decision engine needs.
type Directory interface {
	TemplateStore
	UserStore
	RoomStore
}
