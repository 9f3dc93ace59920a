package service

import (
	"context"
	"strings"
	"time"

	"github.com/ianus-labs/ianus/server/internal/ianus/store"
)

// DeviceRegistry tracks which scanners are commissioned and when they
// last contacted the server.
type DeviceRegistry struct {
	store store.DeviceStore
}

func NewDeviceRegistry(st store.DeviceStore) *DeviceRegistry {
	return &DeviceRegistry{store: st}
}

func (r *DeviceRegistry) IsKnown(ctx context.Context, hardwareID string) (bool, error) {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return false, nil
	}
	return r.store.IsKnown(ctx, hardwareID)
}

func (r *DeviceRegistry) NoteSeen(ctx context.Context, hardwareID string, known bool) error {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return nil
	}
	return r.store.MarkSeen(ctx, hardwareID, known, time.Now().UTC())
}
