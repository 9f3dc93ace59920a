package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbpkg "github.com/ianus-labs/ianus/server/internal/db"
	"github.com/ianus-labs/ianus/server/internal/ianus/store"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// EnrollmentStore persists the append-only audit log.  Writes go through
// the single writer; report queries read directly.
type EnrollmentStore struct {
	db     *sql.DB
	writer *dbpkg.Writer
}

func NewEnrollmentStore(db *sql.DB, writer *dbpkg.Writer) *EnrollmentStore {
	return &EnrollmentStore{db: db, writer: writer}
}

func (s *EnrollmentStore) RecordEnrollment(ctx context.Context, rec store.EnrollmentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now().UTC()
	}
	decidedMs := rec.DecidedAt.UTC().UnixMilli()

	var confirmed int
	if rec.Confirmed {
		confirmed = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// The presenting device may have raced its first heartbeat;
		// make sure its row exists before the audit row references it
		// in reports.
		if err := ensureDevice(ctx, tx, rec.HardwareID, decidedMs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO enrollments(
  enrollment_id, fingerprint_id, user_id, room_id,
  device_hardware_id, finger_slot, confirmed, reason,
  user_first_name, user_last_name, room_number, building_number,
  decided_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID.String(), uuidOrNil(rec.FingerprintID), uuidOrNil(rec.UserID), uuidOrNil(rec.RoomID),
			rec.HardwareID, string(rec.Slot), confirmed, string(rec.Reason),
			rec.UserFirstName, rec.UserLastName, intOrNil(rec.RoomNumber), intOrNil(rec.BuildingNumber),
			decidedMs,
		); err != nil {
			return fmt.Errorf("RecordEnrollment insert: %w", err)
		}

		return nil
	})
}

const enrollmentColumns = `
enrollment_id, fingerprint_id, user_id, room_id,
device_hardware_id, finger_slot, confirmed, reason,
user_first_name, user_last_name, room_number, building_number,
decided_at_ms`

func (s *EnrollmentStore) UnconfirmedSince(ctx context.Context, since time.Time, limit int) ([]store.EnrollmentRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+enrollmentColumns+`
FROM enrollments
WHERE confirmed = 0 AND user_id IS NOT NULL AND decided_at_ms >= ?
ORDER BY decided_at_ms DESC
LIMIT ?;`, since.UTC().UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("UnconfirmedSince query: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func (s *EnrollmentStore) RecentByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]store.EnrollmentRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+enrollmentColumns+`
FROM enrollments
WHERE room_id = ?
ORDER BY decided_at_ms DESC
LIMIT ?;`, roomID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("RecentByRoom query: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

func scanEnrollments(rows *sql.Rows) ([]store.EnrollmentRecord, error) {
	var out []store.EnrollmentRecord
	for rows.Next() {
		var (
			rec           store.EnrollmentRecord
			id            string
			fpID, usID    sql.NullString
			rmID          sql.NullString
			slot, reason  string
			confirmed     int
			roomNum, bNum sql.NullInt64
			decidedMs     int64
		)
		if err := rows.Scan(
			&id, &fpID, &usID, &rmID,
			&rec.HardwareID, &slot, &confirmed, &reason,
			&rec.UserFirstName, &rec.UserLastName, &roomNum, &bNum,
			&decidedMs,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}

		rec.ID = uuid.MustParse(id)
		rec.FingerprintID = parseNullUUID(fpID)
		rec.UserID = parseNullUUID(usID)
		rec.RoomID = parseNullUUID(rmID)
		rec.Slot = types.FingerSlot(slot)
		rec.Reason = types.DecisionReason(reason)
		rec.Confirmed = confirmed == 1
		rec.RoomNumber = nullInt(roomNum)
		rec.BuildingNumber = nullInt(bNum)
		rec.DecidedAt = time.UnixMilli(decidedMs).UTC()

		out = append(out, rec)
	}
	return out, rows.Err()
}

// ── null helpers ─────────────────────────────────────────────────────────────

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullUUID(v sql.NullString) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil
	}
	return &id
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
