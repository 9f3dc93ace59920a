package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	sqlitestore "github.com/ianus-labs/ianus/server/internal/ianus/store/sqlite"
)

// ═══════════════════════════════════════════════════════════════════════════
// IsKnown — commissioned, enabled, not revoked
// ═══════════════════════════════════════════════════════════════════════════

func TestDeviceStore_IsKnown(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	seedDevice(t, conn, "scanner-good", uuid.Nil)

	ok, err := ds.IsKnown(ctx, "scanner-good")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if !ok {
		t.Error("commissioned+enabled device should be known")
	}

	ok, err = ds.IsKnown(ctx, "scanner-never-seen")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if ok {
		t.Error("absent device should not be known")
	}
}

func TestDeviceStore_IsKnown_RevokedAndDisabled(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	nowMs := time.Now().UTC().UnixMilli()

	// Revoked device.
	_, err := conn.ExecContext(ctx, `
INSERT INTO devices(hardware_id, enabled, commissioned_at_ms, revoked_at_ms, created_at_ms, updated_at_ms)
VALUES ('scanner-revoked', 1, ?, ?, ?, ?);`, nowMs, nowMs, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seed revoked device: %v", err)
	}

	// Disabled, never commissioned (auto-created shape).
	_, err = conn.ExecContext(ctx, `
INSERT INTO devices(hardware_id, enabled, created_at_ms, updated_at_ms)
VALUES ('scanner-stray', 0, ?, ?);`, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seed stray device: %v", err)
	}

	for _, id := range []string{"scanner-revoked", "scanner-stray"} {
		ok, err := ds.IsKnown(ctx, id)
		if err != nil {
			t.Fatalf("IsKnown(%s): %v", id, err)
		}
		if ok {
			t.Errorf("%s should not be known", id)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// MarkSeen — creates the row and refreshes last_seen
// ═══════════════════════════════════════════════════════════════════════════

func TestDeviceStore_MarkSeen_CreatesRow(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	seen := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if err := ds.MarkSeen(ctx, "scanner-new", false, seen); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	var (
		enabled    int
		lastSeenMs sql.NullInt64
	)
	err := conn.QueryRowContext(ctx,
		`SELECT enabled, last_seen_at_ms FROM devices WHERE hardware_id = ?`, "scanner-new",
	).Scan(&enabled, &lastSeenMs)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if enabled != 0 {
		t.Errorf("auto-created device must start disabled, got enabled=%d", enabled)
	}
	if !lastSeenMs.Valid || lastSeenMs.Int64 != seen.UnixMilli() {
		t.Errorf("expected last_seen_at_ms=%d, got %v", seen.UnixMilli(), lastSeenMs)
	}
}

func TestDeviceStore_MarkSeen_DoesNotCommission(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	seedDevice(t, conn, "scanner-good", uuid.Nil)

	if err := ds.MarkSeen(ctx, "scanner-good", true, time.Now().UTC()); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	// Being seen never changes commissioning state in either direction.
	ok, err := ds.IsKnown(ctx, "scanner-good")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if !ok {
		t.Error("MarkSeen must not decommission a known device")
	}

	if err := ds.MarkSeen(ctx, "scanner-stray", false, time.Now().UTC()); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	ok, err = ds.IsKnown(ctx, "scanner-stray")
	if err != nil {
		t.Fatalf("IsKnown: %v", err)
	}
	if ok {
		t.Error("MarkSeen must not commission a stray device")
	}
}
