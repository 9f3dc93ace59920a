package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// Directory is an in-memory implementation of the engine's read-only
// lookups (templates, users, rooms, authorizations, device bindings).
// The Add*/Bind/Authorize mutators exist for tests and dev seeding only;
// the engine never writes through this type.
type Directory struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]types.User
	fingerprints map[uuid.UUID][]types.Fingerprint // by user
	rooms        map[uuid.UUID]types.Room
	deviceRooms  map[string]uuid.UUID // hardware id -> room
	authorized   map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		users:        make(map[uuid.UUID]types.User),
		fingerprints: make(map[uuid.UUID][]types.Fingerprint),
		rooms:        make(map[uuid.UUID]types.Room),
		deviceRooms:  make(map[string]uuid.UUID),
		authorized:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// ── Mutators (tests / dev seeding) ───────────────────────────────────────────

func (d *Directory) AddUser(u types.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// AddFingerprint stores a template, replacing any existing template for
// the same (user, slot) — the same uniqueness policy the schema enforces.
func (d *Directory) AddFingerprint(fp types.Fingerprint) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.fingerprints[fp.UserID]
	for i, existing := range list {
		if existing.Slot == fp.Slot {
			list[i] = fp
			return
		}
	}
	d.fingerprints[fp.UserID] = append(list, fp)
}

func (d *Directory) AddRoom(r types.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms[r.ID] = r
}

// BindDevice points a scanner at a room.
func (d *Directory) BindDevice(hardwareID string, roomID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deviceRooms[hardwareID] = roomID
}

// Authorize adds (user, room) to the permitted set.
func (d *Directory) Authorize(userID, roomID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.authorized[userID] == nil {
		d.authorized[userID] = make(map[uuid.UUID]struct{})
	}
	d.authorized[userID][roomID] = struct{}{}
}

// ── store.Directory ──────────────────────────────────────────────────────────

func (d *Directory) FingerprintsBySlot(_ context.Context, slot types.FingerSlot) ([]types.Fingerprint, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []types.Fingerprint
	for _, list := range d.fingerprints {
		for _, fp := range list {
			if fp.Slot == slot {
				out = append(out, fp)
			}
		}
	}
	return out, nil
}

func (d *Directory) FingerprintBySlotAndUser(_ context.Context, slot types.FingerSlot, userID uuid.UUID) (types.Fingerprint, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, fp := range d.fingerprints[userID] {
		if fp.Slot == slot {
			return fp, true, nil
		}
	}
	return types.Fingerprint{}, false, nil
}

func (d *Directory) UserByID(_ context.Context, id uuid.UUID) (types.User, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	return u, ok, nil
}

func (d *Directory) RoomForDevice(_ context.Context, hardwareID string) (types.Room, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	roomID, ok := d.deviceRooms[hardwareID]
	if !ok {
		return types.Room{}, false, nil
	}
	room, ok := d.rooms[roomID]
	return room, ok, nil
}

func (d *Directory) IsUserAuthorizedForRoom(_ context.Context, userID, roomID uuid.UUID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.authorized[userID][roomID]
	return ok, nil
}
