package domain

// Snapshot is the placement message exchanged with the receiver.
type Snapshot struct {
	Layout       Layout        `json:"layout"`
	Participants []Participant `json:"participants"`
}

// Slot is one video area position and its optional occupant.
type Slot struct {
	ID       SlotID       `json:"id"`
	Occupant *Participant `json:"occupant,omitempty"`
}

func (s Slot) Empty() bool { return s.Occupant == nil }

// BoardState is a read-only copy of the placement board.
// Active is false while the board is EMPTY, i.e. no slots exist.
type BoardState struct {
	Layout Layout        `json:"layout"`
	Active bool          `json:"active"`
	Slots  []Slot        `json:"slots"`
	Placed []Participant `json:"placed"`
	Roster []Participant `json:"roster"`
}

func (b BoardState) Snapshot() Snapshot {
	placed := make([]Participant, len(b.Placed))
	copy(placed, b.Placed)
	return Snapshot{Layout: b.Layout, Participants: placed}
}
