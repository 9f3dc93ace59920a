package store

import (
	"context"
	"time"
)

type DeviceStore interface {
	// IsKnown reports whether the scanner is commissioned, enabled, and
	// not revoked.
	IsKnown(ctx context.Context, hardwareID string) (bool, error)

	// MarkSeen records that the scanner contacted the server, creating a
	// disabled/uncommissioned row for scanners never seen before.
	MarkSeen(ctx context.Context, hardwareID string, known bool, t time.Time) error
}
