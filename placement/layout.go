package placement

import (
	"share-lab/domain"
	"share-lab/domain/event"
)

func (b *Board) GetOptimalLayout(count int) domain.Layout {
	return domain.OptimalLayout(count)
}

// CheckAndExpandLayout grows the layout once the placed count outgrows it.
// Expansion rebuilds every slot and re-places participants in their original order.
func (b *Board) CheckAndExpandLayout() bool {
	target, ok := domain.ExpansionTarget(b.layout, len(b.placed))
	if !ok {
		return false
	}
	b.batch("expand", func() {
		b.log.Info("Expanding layout", "from", b.layout, "to", target)
		b.rebuild(target)
	})
	return true
}

// AdjustLayoutAfterRemoval shrinks to the optimal layout, or resets the board
// when nobody is left.
func (b *Board) AdjustLayoutAfterRemoval() {
	b.batch("adjust", func() {
		if len(b.placed) == 0 {
			b.reset()
			return
		}
		b.rebuild(domain.OptimalLayout(len(b.placed)))
	})
}

// SelectLayout switches to a layout chosen by the admin. It refuses a layout
// that cannot hold the current participants.
func (b *Board) SelectLayout(layout domain.Layout) bool {
	if !layout.Valid() {
		b.log.Warn("Invalid layout requested", "layout", layout)
		return false
	}
	if len(b.placed) > layout.Capacity() {
		b.log.Warn("Layout too small for placed participants",
			"layout", layout, "placed", len(b.placed))
		return false
	}
	b.batch("select_layout", func() {
		b.rebuild(layout)
	})
	return true
}

// Place is the drop onto the video area and the voice call entry point.
// An EMPTY board starts at layout 1. Without a free slot the layout grows by
// one before the participant is added.
func (b *Board) Place(name string, source domain.Source) bool {
	if !b.canPlace(name) {
		return false
	}
	var ok bool
	b.batch("place", func() {
		if !b.Active() {
			b.rebuild(domain.LayoutSingle)
		}
		if b.firstEmptySlot() < 0 && len(b.placed) < domain.MaxSlots {
			b.rebuild(domain.Layout(min(len(b.placed)+1, domain.MaxSlots)))
		}
		if _, ok = b.add(name, source, -1); ok {
			b.CheckAndExpandLayout()
		}
	})
	return ok
}

// PlaceInSlot is the drop onto a given slot. The slot has to exist and be free.
func (b *Board) PlaceInSlot(name string, slot domain.SlotID) bool {
	index, valid := slot.Index()
	if !valid || index >= len(b.slots) {
		b.log.Warn("Drop on a missing slot", "name", name, "slot", slot)
		return false
	}
	if b.slots[index] != nil {
		b.log.Warn("Drop on an occupied slot", "name", name, "slot", slot, "occupant", b.slots[index].Name)
		return false
	}
	if !b.canPlace(name) {
		return false
	}
	var ok bool
	b.batch("place_in_slot", func() {
		if _, ok = b.add(name, domain.SourceAdmin, index); ok {
			b.CheckAndExpandLayout()
		}
	})
	return ok
}

// PlaceWithLayout is the drop onto a layout option: the layout is selected
// first, then the participant is placed.
func (b *Board) PlaceWithLayout(name string, layout domain.Layout) bool {
	if !b.canPlace(name) {
		return false
	}
	var ok bool
	b.batch("place_with_layout", func() {
		if !b.SelectLayout(layout) {
			return
		}
		ok = b.Place(name, domain.SourceAdmin)
	})
	return ok
}

// Remove is the removal requested from the dashboard: the participant leaves
// the video area and the layout is adjusted.
func (b *Board) Remove(name string) bool {
	var ok bool
	b.batch("remove", func() {
		if ok = b.RemoveFromVideoArea(name); ok {
			b.AdjustLayoutAfterRemoval()
		}
	})
	return ok
}

// Reset clears every placement and slot and goes back to layout 1.
func (b *Board) Reset() {
	b.batch("reset", b.reset)
}

func (b *Board) canPlace(name string) bool {
	if _, ok := b.GetByName(name); !ok {
		b.log.Warn("Cannot place unknown participant", "name", name)
		return false
	}
	if b.IsPlaced(name) {
		b.log.Info("Participant already placed", "name", name)
		return false
	}
	if len(b.placed) >= domain.MaxSlots {
		b.log.Warn("Maximum number of participants reached", "name", name)
		return false
	}
	return true
}

// rebuild switches the layout, recreates its slots and re-places the current
// participants in order. Participants beyond capacity are dropped.
func (b *Board) rebuild(layout domain.Layout) {
	current := b.placed
	b.layout = layout
	b.placed = nil
	b.slots = make([]*domain.Participant, layout.Capacity())
	for i, p := range current {
		if i >= len(b.slots) {
			b.log.Warn("Participant dropped by layout rebuild", "name", p.Name, "layout", layout)
			b.record(event.ParticipantUnplaced{Participant: p, At: b.now()})
			continue
		}
		occupant := p
		b.slots[i] = &occupant
		b.placed = append(b.placed, p)
	}
	b.markDirty()
}

// reset publishes only when something was on screen.
func (b *Board) reset() {
	if len(b.placed) > 0 || b.slots != nil {
		b.markDirty()
	}
	for _, p := range b.placed {
		b.record(event.ParticipantUnplaced{Participant: p, At: b.now()})
	}
	b.placed = nil
	b.slots = nil
	b.layout = domain.LayoutSingle
	b.record(event.BoardReset{At: b.now()})
}
