package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureDevice guarantees a devices row exists for the given hardwareID so
// that foreign-key constraints from heartbeats are satisfied.
//
// New rows start disabled and uncommissioned — only an admin action (or
// the dev seeder) sets enabled=1 and commissioned_at_ms.
//
// Must be called inside an existing transaction.
func ensureDevice(ctx context.Context, tx *sql.Tx, hardwareID string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO devices(
  hardware_id, enabled, created_at_ms, updated_at_ms
) VALUES (?, 0, ?, ?);
`, hardwareID, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureDevice %s: %w", hardwareID, err)
	}
	return nil
}
