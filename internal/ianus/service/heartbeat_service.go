package service

import (
	"context"
	"strings"
	"time"

	"github.com/ianus-labs/ianus/server/internal/ianus/store"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

type HeartbeatService struct {
	heartbeatStore store.HeartbeatStore
	registry       *DeviceRegistry
}

func NewHeartbeatService(hs store.HeartbeatStore, reg *DeviceRegistry) *HeartbeatService {
	return &HeartbeatService{heartbeatStore: hs, registry: reg}
}

func (s *HeartbeatService) Record(ctx context.Context, req types.HeartbeatRequest) (types.HeartbeatResponse, error) {
	hardwareID := strings.TrimSpace(req.HardwareID)
	if hardwareID == "" {
		return types.HeartbeatResponse{}, ErrInvalidDeviceID
	}

	known, err := s.registry.IsKnown(ctx, hardwareID)
	if err != nil {
		return types.HeartbeatResponse{}, err
	}
	_ = s.registry.NoteSeen(ctx, hardwareID, known)

	rec := store.HeartbeatRecord{
		ReceivedAt: time.Now().UTC(),
		Request:    req,
	}

	if err := s.heartbeatStore.UpsertHeartbeat(ctx, hardwareID, rec); err != nil {
		return types.HeartbeatResponse{}, err
	}

	return types.HeartbeatResponse{
		OK:         true,
		Known:      known,
		HardwareID: hardwareID,
		ServerTime: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}
