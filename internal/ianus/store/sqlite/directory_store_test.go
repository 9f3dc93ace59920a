package sqlite_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"

	sqlitestore "github.com/ianus-labs/ianus/server/internal/ianus/store/sqlite"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// FingerprintsBySlot — gallery scoping
// ═══════════════════════════════════════════════════════════════════════════

func TestDirectoryStore_FingerprintsBySlot(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	alice := seedUser(t, conn, "Alice", "Varga")
	bob := seedUser(t, conn, "Bob", "Keller")

	seedFingerprint(t, conn, alice, types.SlotRightIndex, []byte("alice-ri"))
	seedFingerprint(t, conn, bob, types.SlotRightIndex, []byte("bob-ri"))
	seedFingerprint(t, conn, bob, types.SlotLeftThumb, []byte("bob-lt"))

	fps, err := ds.FingerprintsBySlot(ctx, types.SlotRightIndex)
	if err != nil {
		t.Fatalf("FingerprintsBySlot: %v", err)
	}
	if len(fps) != 2 {
		t.Fatalf("expected 2 right-index templates, got %d", len(fps))
	}
	for _, fp := range fps {
		if fp.Slot != types.SlotRightIndex {
			t.Errorf("template from slot %s leaked into gallery", fp.Slot)
		}
	}

	fps, err = ds.FingerprintsBySlot(ctx, types.SlotLeftLittle)
	if err != nil {
		t.Fatalf("FingerprintsBySlot: %v", err)
	}
	if len(fps) != 0 {
		t.Errorf("expected empty gallery for unused slot, got %d", len(fps))
	}
}

func TestDirectoryStore_FingerprintBySlotAndUser(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	alice := seedUser(t, conn, "Alice", "Varga")
	fpID := seedFingerprint(t, conn, alice, types.SlotRightIndex, []byte("alice-ri"))

	fp, found, err := ds.FingerprintBySlotAndUser(ctx, types.SlotRightIndex, alice)
	if err != nil {
		t.Fatalf("FingerprintBySlotAndUser: %v", err)
	}
	if !found {
		t.Fatal("expected template to be found")
	}
	if fp.ID != fpID {
		t.Errorf("expected fingerprint %s, got %s", fpID, fp.ID)
	}
	if !bytes.Equal(fp.Template, []byte("alice-ri")) {
		t.Error("template bytes mismatch")
	}

	_, found, err = ds.FingerprintBySlotAndUser(ctx, types.SlotLeftThumb, alice)
	if err != nil {
		t.Fatalf("FingerprintBySlotAndUser: %v", err)
	}
	if found {
		t.Error("expected no template for unenrolled slot")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// UserByID
// ═══════════════════════════════════════════════════════════════════════════

func TestDirectoryStore_UserByID(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	id := seedUser(t, conn, "Alice", "Varga")

	u, found, err := ds.UserByID(ctx, id)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if !found {
		t.Fatal("expected user to be found")
	}
	if u.FirstName != "Alice" || u.LastName != "Varga" {
		t.Errorf("expected Alice Varga, got %s %s", u.FirstName, u.LastName)
	}
	if u.Role != types.RoleUser {
		t.Errorf("expected default role USER, got %s", u.Role)
	}

	_, found, err = ds.UserByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if found {
		t.Error("expected unknown id to be not found")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// RoomForDevice — binding resolution
// ═══════════════════════════════════════════════════════════════════════════

func TestDirectoryStore_RoomForDevice_Bound(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	buildingID := seedBuilding(t, conn, 3)
	roomID := seedRoom(t, conn, buildingID, 101)
	seedDevice(t, conn, "scanner-1", roomID)

	room, found, err := ds.RoomForDevice(ctx, "scanner-1")
	if err != nil {
		t.Fatalf("RoomForDevice: %v", err)
	}
	if !found {
		t.Fatal("expected bound device to resolve a room")
	}
	if room.ID != roomID {
		t.Errorf("expected room %s, got %s", roomID, room.ID)
	}
	if room.Number != 101 {
		t.Errorf("expected room number 101, got %d", room.Number)
	}
	if room.BuildingNumber != 3 {
		t.Errorf("expected building number 3, got %d", room.BuildingNumber)
	}
}

func TestDirectoryStore_RoomForDevice_UnboundAndUnknown(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	seedDevice(t, conn, "scanner-unbound", uuid.Nil)

	_, found, err := ds.RoomForDevice(ctx, "scanner-unbound")
	if err != nil {
		t.Fatalf("RoomForDevice: %v", err)
	}
	if found {
		t.Error("unbound device must not resolve a room")
	}

	_, found, err = ds.RoomForDevice(ctx, "scanner-never-seen")
	if err != nil {
		t.Fatalf("RoomForDevice: %v", err)
	}
	if found {
		t.Error("unknown device must not resolve a room")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// IsUserAuthorizedForRoom
// ═══════════════════════════════════════════════════════════════════════════

func TestDirectoryStore_IsUserAuthorizedForRoom(t *testing.T) {
	conn := openTestDB(t)
	ds := sqlitestore.NewDirectoryStore(conn)
	ctx := context.Background()

	buildingID := seedBuilding(t, conn, 1)
	lab := seedRoom(t, conn, buildingID, 101)
	serverRoom := seedRoom(t, conn, buildingID, 202)
	alice := seedUser(t, conn, "Alice", "Varga")
	seedAuthorization(t, conn, alice, lab)

	ok, err := ds.IsUserAuthorizedForRoom(ctx, alice, lab)
	if err != nil {
		t.Fatalf("IsUserAuthorizedForRoom: %v", err)
	}
	if !ok {
		t.Error("expected authorization for the lab")
	}

	ok, err = ds.IsUserAuthorizedForRoom(ctx, alice, serverRoom)
	if err != nil {
		t.Fatalf("IsUserAuthorizedForRoom: %v", err)
	}
	if ok {
		t.Error("expected no authorization for the server room")
	}
}
