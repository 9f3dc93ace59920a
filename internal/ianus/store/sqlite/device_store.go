package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/ianus-labs/ianus/server/internal/db"
)

type DeviceStore struct {
	db     *sql.DB
	writer *dbpkg.Writer
}

func NewDeviceStore(db *sql.DB, writer *dbpkg.Writer) *DeviceStore {
	return &DeviceStore{db: db, writer: writer}
}

// IsKnown: "known" means commissioned, enabled, and not revoked.  Scanners
// the server has merely heard from do not count.
func (s *DeviceStore) IsKnown(ctx context.Context, hardwareID string) (bool, error) {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return false, nil
	}

	var enabled int
	var commissioned sql.NullInt64
	var revoked sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
SELECT enabled, commissioned_at_ms, revoked_at_ms
FROM devices
WHERE hardware_id = ?;
`, hardwareID).Scan(&enabled, &commissioned, &revoked)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsKnown query: %w", err)
	}

	return enabled == 1 && commissioned.Valid && !revoked.Valid, nil
}

// MarkSeen ensures a devices row exists (even for unknown scanners) and
// updates last_seen.
func (s *DeviceStore) MarkSeen(ctx context.Context, hardwareID string, _ bool, t time.Time) error {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, hardwareID, ms); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE hardware_id = ?;
`, ms, ms, hardwareID); err != nil {
			return fmt.Errorf("MarkSeen update device: %w", err)
		}

		return nil
	})
}
