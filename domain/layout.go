package domain

import "fmt"

// Layout is the number of video slots the receiver shows.
type Layout int

const (
	LayoutSingle Layout = 1
	LayoutDual   Layout = 2
	LayoutTriple Layout = 3
	LayoutQuad   Layout = 4
)

// MaxSlots is the hard cap on simultaneously placed participants.
const MaxSlots = 4

func (l Layout) Valid() bool {
	return l >= LayoutSingle && l <= LayoutQuad
}

// Capacity is the number of slots of the layout.
func (l Layout) Capacity() int {
	if !l.Valid() {
		return 0
	}
	return int(l)
}

// OptimalLayout returns the smallest layout able to show count participants.
func OptimalLayout(count int) Layout {
	switch {
	case count <= 1:
		return LayoutSingle
	case count == 2:
		return LayoutDual
	case count == 3:
		return LayoutTriple
	default:
		return LayoutQuad
	}
}

// ExpansionTarget returns the layout to grow into once count participants are
// placed on l. Only the exact transitions 1→2, 2→3 and 3→4 exist.
func ExpansionTarget(l Layout, count int) (Layout, bool) {
	switch {
	case l == LayoutSingle && count == 2:
		return LayoutDual, true
	case l == LayoutDual && count == 3:
		return LayoutTriple, true
	case l == LayoutTriple && count == 4:
		return LayoutQuad, true
	}
	return l, false
}

// SlotID identifies a slot by its 0-based index ("slot-0".."slot-3").
type SlotID string

func SlotIDFor(index int) SlotID {
	return SlotID(fmt.Sprintf("slot-%d", index))
}

// Index parses the slot position back from its identifier.
func (s SlotID) Index() (int, bool) {
	var i int
	if _, err := fmt.Sscanf(string(s), "slot-%d", &i); err != nil {
		return 0, false
	}
	if i < 0 || i >= MaxSlots || SlotIDFor(i) != s {
		return 0, false
	}
	return i, true
}
