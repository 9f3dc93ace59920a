package types

// FingerSlot identifies which finger a stored template or a presented
// capture corresponds to.  SlotNone is the "unset" sentinel and is never a
// valid claimed slot for an access attempt.
type FingerSlot string

const (
	SlotNone FingerSlot = "none"

	SlotLeftThumb   FingerSlot = "left_thumb"
	SlotLeftIndex   FingerSlot = "left_index"
	SlotLeftMiddle  FingerSlot = "left_middle"
	SlotLeftRing    FingerSlot = "left_ring"
	SlotLeftLittle  FingerSlot = "left_little"
	SlotRightThumb  FingerSlot = "right_thumb"
	SlotRightIndex  FingerSlot = "right_index"
	SlotRightMiddle FingerSlot = "right_middle"
	SlotRightRing   FingerSlot = "right_ring"
	SlotRightLittle FingerSlot = "right_little"
)

var fingerSlots = map[FingerSlot]struct{}{
	SlotLeftThumb: {}, SlotLeftIndex: {}, SlotLeftMiddle: {}, SlotLeftRing: {}, SlotLeftLittle: {},
	SlotRightThumb: {}, SlotRightIndex: {}, SlotRightMiddle: {}, SlotRightRing: {}, SlotRightLittle: {},
}

// Valid reports whether s names an actual finger (not the sentinel).
func (s FingerSlot) Valid() bool {
	_, ok := fingerSlots[s]
	return ok
}

func (s FingerSlot) String() string { return string(s) }

// ParseFingerSlot maps a wire string to a FingerSlot.  Unknown values come
// back as SlotNone with ok=false.
func ParseFingerSlot(v string) (FingerSlot, bool) {
	s := FingerSlot(v)
	if s.Valid() {
		return s, true
	}
	return SlotNone, false
}
