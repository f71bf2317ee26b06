// Package placement holds the state machine deciding which participants are
// shown on the receiver and in which layout.
//
// A Board is not safe for concurrent use. It is owned by a single goroutine
// (see workers.BoardWorker) and every operation runs to completion before the
// next one starts.
package placement

import (
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"time"
)

// Board combines the participant registry, the layout engine and the
// placement synchronizer.
//
// The board is EMPTY while slots is nil. Otherwise len(slots) equals the
// capacity of the current layout and every placed participant occupies
// exactly one slot.
type Board struct {
	log       *slog.Logger
	publisher contract.PlacementPublisher
	now       func() time.Time

	roster []domain.Participant
	placed []domain.Participant
	layout domain.Layout
	slots  []*domain.Participant

	// batch nesting depth, publishes are deferred until it drops to zero
	depth  int
	dirty  bool
	reason string

	outbox []event.DomainEvent
}

func NewBoard(log *slog.Logger, publisher contract.PlacementPublisher) *Board {
	return &Board{
		log:       log,
		publisher: publisher,
		now:       time.Now,
		layout:    domain.LayoutSingle,
	}
}

// FlushEvents returns the events recorded since the last flush and clears the outbox.
func (b *Board) FlushEvents() []event.DomainEvent {
	events := b.outbox
	b.outbox = nil
	return events
}

// State returns a copy of the board safe to hand to other goroutines.
func (b *Board) State() domain.BoardState {
	state := domain.BoardState{
		Layout: b.layout,
		Active: b.slots != nil,
		Placed: append([]domain.Participant(nil), b.placed...),
		Roster: append([]domain.Participant(nil), b.roster...),
	}
	for i, occupant := range b.slots {
		slot := domain.Slot{ID: domain.SlotIDFor(i)}
		if occupant != nil {
			p := *occupant
			slot.Occupant = &p
		}
		state.Slots = append(state.Slots, slot)
	}
	return state
}

// Layout returns the current layout. It is 1 while the board is EMPTY.
func (b *Board) Layout() domain.Layout { return b.layout }

// Active reports whether slots exist.
func (b *Board) Active() bool { return b.slots != nil }

// SlotOf returns the slot a placed participant occupies.
func (b *Board) SlotOf(name string) (domain.SlotID, bool) {
	for i, occupant := range b.slots {
		if occupant != nil && occupant.Name == name {
			return domain.SlotIDFor(i), true
		}
	}
	return "", false
}

// batch runs fn and publishes once at the end of the outermost batch if fn
// changed the placement. Nested batches are folded into the outer one.
func (b *Board) batch(reason string, fn func()) {
	if b.depth == 0 {
		b.reason = reason
	}
	b.depth++
	fn()
	b.depth--
	if b.depth > 0 || !b.dirty {
		return
	}
	b.dirty = false
	b.Publish()
	b.record(event.PlacementChanged{
		State:     b.State(),
		Reason:    b.reason,
		Published: true,
		At:        b.now(),
	})
}

func (b *Board) markDirty() { b.dirty = true }

func (b *Board) record(e event.DomainEvent) {
	b.outbox = append(b.outbox, e)
}

func (b *Board) indexOfPlaced(p domain.Participant) int {
	for i, placed := range b.placed {
		if placed.SameIdentity(p) {
			return i
		}
	}
	return -1
}

func (b *Board) firstEmptySlot() int {
	for i, occupant := range b.slots {
		if occupant == nil {
			return i
		}
	}
	return -1
}

func (b *Board) clearSlotOf(p domain.Participant) {
	for i, occupant := range b.slots {
		if occupant != nil && occupant.SameIdentity(p) {
			b.slots[i] = nil
		}
	}
}
