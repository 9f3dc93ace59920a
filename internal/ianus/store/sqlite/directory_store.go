package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// DirectoryStore serves the engine's read-only lookups: templates, users,
// rooms, and the authorization set.  It never writes — directory rows are
// owned by the administrative side.
type DirectoryStore struct {
	db *sql.DB
}

func NewDirectoryStore(db *sql.DB) *DirectoryStore {
	return &DirectoryStore{db: db}
}

// ── store.TemplateStore ──────────────────────────────────────────────────────

func (s *DirectoryStore) FingerprintsBySlot(ctx context.Context, slot types.FingerSlot) ([]types.Fingerprint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT fingerprint_id, user_id, slot, template, created_at_ms
FROM fingerprints
WHERE slot = ?;`, string(slot))
	if err != nil {
		return nil, fmt.Errorf("FingerprintsBySlot query: %w", err)
	}
	defer rows.Close()

	var out []types.Fingerprint
	for rows.Next() {
		fp, err := scanFingerprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}

func (s *DirectoryStore) FingerprintBySlotAndUser(ctx context.Context, slot types.FingerSlot, userID uuid.UUID) (types.Fingerprint, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT fingerprint_id, user_id, slot, template, created_at_ms
FROM fingerprints
WHERE slot = ? AND user_id = ?;`, string(slot), userID.String())

	fp, err := scanFingerprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Fingerprint{}, false, nil
	}
	if err != nil {
		return types.Fingerprint{}, false, err
	}
	return fp, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFingerprint(r rowScanner) (types.Fingerprint, error) {
	var (
		id, userID, slot string
		template         []byte
		createdMs        int64
	)
	if err := r.Scan(&id, &userID, &slot, &template, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Fingerprint{}, err
		}
		return types.Fingerprint{}, fmt.Errorf("scan fingerprint: %w", err)
	}
	return types.Fingerprint{
		ID:        uuid.MustParse(id),
		UserID:    uuid.MustParse(userID),
		Slot:      types.FingerSlot(slot),
		Template:  template,
		CreatedAt: time.UnixMilli(createdMs).UTC(),
	}, nil
}

// ── store.UserStore ──────────────────────────────────────────────────────────

func (s *DirectoryStore) UserByID(ctx context.Context, id uuid.UUID) (types.User, bool, error) {
	var (
		first, last, role string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT first_name, last_name, role
FROM users
WHERE user_id = ?;`, id.String()).Scan(&first, &last, &role)

	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, false, nil
	}
	if err != nil {
		return types.User{}, false, fmt.Errorf("UserByID query: %w", err)
	}

	return types.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Role:      types.Role(role),
	}, true, nil
}

// ── store.RoomStore ──────────────────────────────────────────────────────────

// RoomForDevice follows devices.room_id to the room and its building
// number.  Unknown or unbound devices come back found=false.
func (s *DirectoryStore) RoomForDevice(ctx context.Context, hardwareID string) (types.Room, bool, error) {
	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return types.Room{}, false, nil
	}

	var (
		roomID, buildingID, name string
		number, buildingNumber   int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT r.room_id, r.building_id, r.name, r.number, b.number
FROM devices d
JOIN rooms r     ON r.room_id = d.room_id
JOIN buildings b ON b.building_id = r.building_id
WHERE d.hardware_id = ?;`, hardwareID).Scan(&roomID, &buildingID, &name, &number, &buildingNumber)

	if errors.Is(err, sql.ErrNoRows) {
		return types.Room{}, false, nil
	}
	if err != nil {
		return types.Room{}, false, fmt.Errorf("RoomForDevice query: %w", err)
	}

	return types.Room{
		ID:             uuid.MustParse(roomID),
		BuildingID:     uuid.MustParse(buildingID),
		Number:         number,
		BuildingNumber: buildingNumber,
		Name:           name,
	}, true, nil
}

func (s *DirectoryStore) IsUserAuthorizedForRoom(ctx context.Context, userID, roomID uuid.UUID) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
SELECT 1 FROM room_authorizations
WHERE user_id = ? AND room_id = ?;`, userID.String(), roomID.String()).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsUserAuthorizedForRoom query: %w", err)
	}
	return true, nil
}
