package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/ianus-labs/ianus/server/internal/db"
	"github.com/ianus-labs/ianus/server/internal/ianus/store"
)

type HeartbeatStore struct {
	db     *sql.DB
	writer *dbpkg.Writer
}

func NewHeartbeatStore(db *sql.DB, writer *dbpkg.Writer) *HeartbeatStore {
	return &HeartbeatStore{db: db, writer: writer}
}

func (s *HeartbeatStore) UpsertHeartbeat(ctx context.Context, hardwareID string, rec store.HeartbeatRecord) error {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return nil
	}

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	recvMs := rec.ReceivedAt.UTC().UnixMilli()

	fw := strings.TrimSpace(rec.Request.FirmwareVersion)
	ip := strings.TrimSpace(rec.Request.IP)

	var rssi any
	if rec.Request.RSSIDbm != nil {
		rssi = *rec.Request.RSSIDbm
	}

	var uptimeMs any
	if rec.Request.UptimeSeconds != 0 {
		uptimeMs = int64(rec.Request.UptimeSeconds) * 1000
	}

	var seq any
	if rec.Request.Sequence != 0 {
		seq = rec.Request.Sequence
	}

	var freeHeap any
	if rec.Request.FreeHeapBytes != 0 {
		freeHeap = rec.Request.FreeHeapBytes
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, hardwareID, recvMs); err != nil {
			return err
		}

		// Append to history.
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_heartbeats(
  hardware_id, received_at_ms, seq, uptime_ms, fw_version, rssi, ip, free_heap_bytes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, hardwareID, recvMs, seq, uptimeMs, fw, rssi, ip, freeHeap); err != nil {
			return fmt.Errorf("UpsertHeartbeat insert heartbeat: %w", err)
		}

		// Update device snapshot for fast current-status queries.
		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    last_ip = ?,
    last_fw_version = ?,
    last_rssi = ?,
    updated_at_ms = ?
WHERE hardware_id = ?;
`, recvMs, ip, fw, rssi, recvMs, hardwareID); err != nil {
			return fmt.Errorf("UpsertHeartbeat update device snapshot: %w", err)
		}

		return nil
	})
}

// PruneOlderThan deletes heartbeat rows received before the cutoff.
// Returns the number of rows deleted.  Uses idx_heartbeats_time for the
// range scan.
func (s *HeartbeatStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM device_heartbeats
WHERE received_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
