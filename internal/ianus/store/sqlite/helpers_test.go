package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ianus-labs/ianus/server/internal/db"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production.  The connection is closed automatically when the
// test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each call gets a unique in-memory database.  The shared-cache URI
	// keeps the database alive for the lifetime of the connection pool
	// (important because sql.DB may close/reopen the underlying conn).
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	// Match production: single connection for SQLite safety.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	// Apply the same migrations as production.
	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Writer backed by conn.  The writer is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Writer {
	t.Helper()

	w := db.NewWriter(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// ── Directory seeding ────────────────────────────────────────────────────────

func seedBuilding(t *testing.T, conn *sql.DB, number int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	nowMs := time.Now().UTC().UnixMilli()
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO buildings(building_id, number, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?);`, id.String(), number, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seedBuilding(%d): %v", number, err)
	}
	return id
}

func seedRoom(t *testing.T, conn *sql.DB, buildingID uuid.UUID, number int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	nowMs := time.Now().UTC().UnixMilli()
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO rooms(room_id, building_id, number, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?);`, id.String(), buildingID.String(), number, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seedRoom(%d): %v", number, err)
	}
	return id
}

func seedUser(t *testing.T, conn *sql.DB, first, last string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	nowMs := time.Now().UTC().UnixMilli()
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO users(user_id, first_name, last_name, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?);`, id.String(), first, last, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seedUser(%s %s): %v", first, last, err)
	}
	return id
}

func seedFingerprint(t *testing.T, conn *sql.DB, userID uuid.UUID, slot types.FingerSlot, template []byte) uuid.UUID {
	t.Helper()
	id := uuid.New()
	nowMs := time.Now().UTC().UnixMilli()
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO fingerprints(fingerprint_id, user_id, slot, template, created_at_ms)
VALUES (?, ?, ?, ?, ?);`, id.String(), userID.String(), string(slot), template, nowMs)
	if err != nil {
		t.Fatalf("seedFingerprint(%s): %v", slot, err)
	}
	return id
}

// seedDevice creates a commissioned, enabled scanner, optionally bound to a
// room.  Pass roomID == uuid.Nil for an unbound device.
func seedDevice(t *testing.T, conn *sql.DB, hardwareID string, roomID uuid.UUID) {
	t.Helper()
	nowMs := time.Now().UTC().UnixMilli()

	var room any
	if roomID != uuid.Nil {
		room = roomID.String()
	}
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO devices(hardware_id, room_id, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
VALUES (?, ?, 1, ?, ?, ?);`, hardwareID, room, nowMs, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seedDevice(%s): %v", hardwareID, err)
	}
}

func seedAuthorization(t *testing.T, conn *sql.DB, userID, roomID uuid.UUID) {
	t.Helper()
	nowMs := time.Now().UTC().UnixMilli()
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO room_authorizations(user_id, room_id, granted_at_ms)
VALUES (?, ?, ?);`, userID.String(), roomID.String(), nowMs)
	if err != nil {
		t.Fatalf("seedAuthorization: %v", err)
	}
}
