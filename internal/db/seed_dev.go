package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedDev populates a demo directory so the access flow can be exercised
// end-to-end in dev: one building, two rooms, two commissioned scanners,
// and two users with dev-matcher templates.
//
// Alice's right index opens room 101 (scanner dev-scanner-1); Bob is
// enrolled but authorized for room 202 only.  Captures "alice-right-index"
// and "bob-right-index" reproduce the stored templates under the dev
// matcher.
func SeedDev(ctx context.Context, conn *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	buildingID := uuid.NewString()
	room101 := uuid.NewString()
	room202 := uuid.NewString()
	alice := uuid.NewString()
	bob := uuid.NewString()

	type stmt struct {
		name string
		sql  string
		args []any
	}

	aliceTpl := sha256.Sum256([]byte("alice-right-index"))
	bobTpl := sha256.Sum256([]byte("bob-right-index"))

	stmts := []stmt{
		{"building", `
INSERT OR IGNORE INTO buildings(building_id, number, name, created_at_ms, updated_at_ms)
VALUES (?, 1, 'Dev Building', ?, ?);`,
			[]any{buildingID, now, now}},
		{"room 101", `
INSERT OR IGNORE INTO rooms(room_id, building_id, number, name, created_at_ms, updated_at_ms)
SELECT ?, building_id, 101, 'Lab', ?, ? FROM buildings WHERE number = 1;`,
			[]any{room101, now, now}},
		{"room 202", `
INSERT OR IGNORE INTO rooms(room_id, building_id, number, name, created_at_ms, updated_at_ms)
SELECT ?, building_id, 202, 'Server Room', ?, ? FROM buildings WHERE number = 1;`,
			[]any{room202, now, now}},
		{"scanner 1", `
INSERT INTO devices(hardware_id, room_id, display_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
SELECT 'dev-scanner-1', room_id, 'Lab Door', 1, ?, ?, ?
FROM rooms WHERE number = 101
ON CONFLICT(hardware_id) DO UPDATE SET
  room_id = excluded.room_id,
  display_name = excluded.display_name,
  enabled = 1,
  commissioned_at_ms = COALESCE(devices.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;`,
			[]any{now, now, now}},
		{"scanner 2", `
INSERT INTO devices(hardware_id, room_id, display_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
SELECT 'dev-scanner-2', room_id, 'Server Room Door', 1, ?, ?, ?
FROM rooms WHERE number = 202
ON CONFLICT(hardware_id) DO UPDATE SET
  room_id = excluded.room_id,
  display_name = excluded.display_name,
  enabled = 1,
  commissioned_at_ms = COALESCE(devices.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;`,
			[]any{now, now, now}},
		{"user alice", `
INSERT OR IGNORE INTO users(user_id, first_name, last_name, role, created_at_ms, updated_at_ms)
VALUES (?, 'Alice', 'Varga', 'USER', ?, ?);`,
			[]any{alice, now, now}},
		{"user bob", `
INSERT OR IGNORE INTO users(user_id, first_name, last_name, role, created_at_ms, updated_at_ms)
VALUES (?, 'Bob', 'Keller', 'ADMIN', ?, ?);`,
			[]any{bob, now, now}},
		{"alice template", `
INSERT OR IGNORE INTO fingerprints(fingerprint_id, user_id, slot, template, created_at_ms)
SELECT ?, user_id, 'right_index', ?, ? FROM users WHERE first_name = 'Alice';`,
			[]any{uuid.NewString(), aliceTpl[:], now}},
		{"bob template", `
INSERT OR IGNORE INTO fingerprints(fingerprint_id, user_id, slot, template, created_at_ms)
SELECT ?, user_id, 'right_index', ?, ? FROM users WHERE first_name = 'Bob';`,
			[]any{uuid.NewString(), bobTpl[:], now}},
		{"alice -> 101", `
INSERT OR IGNORE INTO room_authorizations(user_id, room_id, granted_at_ms)
SELECT u.user_id, r.room_id, ?
FROM users u, rooms r WHERE u.first_name = 'Alice' AND r.number = 101;`,
			[]any{now}},
		{"bob -> 202", `
INSERT OR IGNORE INTO room_authorizations(user_id, room_id, granted_at_ms)
SELECT u.user_id, r.room_id, ?
FROM users u, rooms r WHERE u.first_name = 'Bob' AND r.number = 202;`,
			[]any{now}},
	}

	for _, s := range stmts {
		if _, err := conn.ExecContext(ctx, s.sql, s.args...); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}

	return nil
}
