package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianus-labs/ianus/server/internal/ianus/service"
	"github.com/ianus-labs/ianus/server/internal/ianus/store"
	"github.com/ianus-labs/ianus/server/internal/ianus/store/memory"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
	"github.com/ianus-labs/ianus/server/internal/logger"
)

func TestHeartbeatRecord_KnownDevice(t *testing.T) {
	hs := memory.NewHeartbeatStore()
	ds := memory.NewDeviceStore([]string{"scanner-1"})
	svc := service.NewHeartbeatService(hs, service.NewDeviceRegistry(ds))

	resp, err := svc.Record(context.Background(), types.HeartbeatRequest{
		HardwareID:      "scanner-1",
		FirmwareVersion: "1.4.2",
		UptimeSeconds:   3600,
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.True(t, resp.Known)
	assert.Equal(t, "scanner-1", resp.HardwareID)
	assert.Equal(t, 1, hs.HistoryLen())

	_, seen := ds.LastSeen("scanner-1")
	assert.True(t, seen, "heartbeats refresh last-contact time")
}

func TestHeartbeatRecord_UnknownDeviceStillRecorded(t *testing.T) {
	hs := memory.NewHeartbeatStore()
	svc := service.NewHeartbeatService(hs, service.NewDeviceRegistry(memory.NewDeviceStore(nil)))

	resp, err := svc.Record(context.Background(), types.HeartbeatRequest{HardwareID: "stray-device"})
	require.NoError(t, err)

	// Uncommissioned hardware is tracked, not rejected — ops needs to see
	// what is phoning home.
	assert.True(t, resp.OK)
	assert.False(t, resp.Known)
	assert.Equal(t, 1, hs.HistoryLen())
}

func TestHeartbeatRecord_MissingHardwareID(t *testing.T) {
	hs := memory.NewHeartbeatStore()
	svc := service.NewHeartbeatService(hs, service.NewDeviceRegistry(memory.NewDeviceStore(nil)))

	_, err := svc.Record(context.Background(), types.HeartbeatRequest{HardwareID: "  "})
	assert.ErrorIs(t, err, service.ErrInvalidDeviceID)
	assert.Equal(t, 0, hs.HistoryLen())
}

func TestHeartbeatPruner_PrunesOnStart(t *testing.T) {
	hs := memory.NewHeartbeatStore()
	ctx := context.Background()

	old := store.HeartbeatRecord{ReceivedAt: time.Now().UTC().Add(-72 * time.Hour)}
	fresh := store.HeartbeatRecord{ReceivedAt: time.Now().UTC()}
	require.NoError(t, hs.UpsertHeartbeat(ctx, "scanner-1", old))
	require.NoError(t, hs.UpsertHeartbeat(ctx, "scanner-1", fresh))

	p := service.NewHeartbeatPruner(hs, service.PrunerConfig{
		RetentionDays: 1,
		IntervalHours: 1,
	}, logger.Discard())

	p.Start(ctx)
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return hs.HistoryLen() == 1
	}, 2*time.Second, 10*time.Millisecond, "startup prune should drop expired rows")
}

func TestHeartbeatPruner_ZeroRetentionDisablesPruning(t *testing.T) {
	hs := memory.NewHeartbeatStore()
	ctx := context.Background()

	old := store.HeartbeatRecord{ReceivedAt: time.Now().UTC().Add(-1000 * time.Hour)}
	require.NoError(t, hs.UpsertHeartbeat(ctx, "scanner-1", old))

	p := service.NewHeartbeatPruner(hs, service.PrunerConfig{RetentionDays: 0}, logger.Discard())
	p.Start(ctx)
	p.Stop() // must not hang when the loop never started

	assert.Equal(t, 1, hs.HistoryLen(), "retention 0 keeps everything")
}

func TestHeartbeatPruner_StopTerminatesLoop(t *testing.T) {
	hs := memory.NewHeartbeatStore()

	p := service.NewHeartbeatPruner(hs, service.PrunerConfig{
		RetentionDays: 7,
		IntervalHours: 1,
	}, logger.Discard())

	p.Start(context.Background())

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
