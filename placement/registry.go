package placement

import (
	"share-lab/domain"
	"share-lab/domain/event"

	"github.com/samber/lo"
)

// UpdateAll replaces the roster. Placed participants missing from the new
// roster are removed through the regular removal path and the layout is
// adjusted once for all of them.
func (b *Board) UpdateAll(participants []domain.Participant) {
	b.batch("roster", func() {
		b.roster = append([]domain.Participant(nil), participants...)

		departed := lo.Filter(b.placed, func(p domain.Participant, _ int) bool {
			_, ok := b.findInRoster(p)
			return !ok
		})
		for _, p := range departed {
			b.log.Info("Placed participant left the roster", "name", p.Name, "id", p.ID)
			b.removePlaced(p)
		}
		if len(departed) > 0 {
			b.AdjustLayoutAfterRemoval()
		}
		b.refreshPlaced()

		b.record(event.RosterUpdated{
			Participants: append([]domain.Participant(nil), b.roster...),
			At:           b.now(),
		})
	})
}

// ParticipantLeft drops one participant from the roster.
func (b *Board) ParticipantLeft(left domain.Participant) {
	remaining := lo.Reject(b.roster, func(p domain.Participant, _ int) bool {
		return p.SameIdentity(left)
	})
	if len(remaining) == len(b.roster) {
		b.log.Debug("Left participant was not in the roster", "name", left.Name, "id", left.ID)
	}
	b.UpdateAll(remaining)
}

func (b *Board) IsPlaced(name string) bool {
	return lo.ContainsBy(b.placed, func(p domain.Participant) bool { return p.Name == name })
}

// GetByName returns the first roster entry carrying that name.
// Names are not guaranteed unique, later duplicates are unreachable by name.
func (b *Board) GetByName(name string) (domain.Participant, bool) {
	return lo.Find(b.roster, func(p domain.Participant) bool { return p.Name == name })
}

func (b *Board) GetAllNames() []string {
	return lo.Map(b.roster, func(p domain.Participant, _ int) string { return p.Name })
}

func (b *Board) PlacedNames() []string {
	return lo.Map(b.placed, func(p domain.Participant, _ int) string { return p.Name })
}

func (b *Board) Roster() []domain.Participant {
	return append([]domain.Participant(nil), b.roster...)
}

func (b *Board) Placed() []domain.Participant {
	return append([]domain.Participant(nil), b.placed...)
}

// AddToVideoArea appends a roster participant to the placed list and puts it
// in the first free slot. When no slot is free the layout grows in the same
// batch, so the published snapshot never holds more participants than slots.
// It refuses unknown names, duplicates and a fifth participant.
func (b *Board) AddToVideoArea(name string) bool {
	if !b.canPlace(name) {
		return false
	}
	var ok bool
	b.batch("add", func() {
		if !b.Active() {
			b.rebuild(domain.LayoutSingle)
		}
		if _, ok = b.add(name, domain.SourceAdmin, -1); ok {
			b.CheckAndExpandLayout()
		}
	})
	return ok
}

// RemoveFromVideoArea takes a participant off the video area and frees its slot.
// The layout is left untouched, see Remove for the full removal.
func (b *Board) RemoveFromVideoArea(name string) bool {
	var ok bool
	b.batch("remove", func() {
		p, found := lo.Find(b.placed, func(p domain.Participant) bool { return p.Name == name })
		if !found {
			b.log.Debug("Participant is not placed", "name", name)
			return
		}
		b.removePlaced(p)
		ok = true
	})
	return ok
}

// add places name in slot index. A negative index picks the first free slot.
func (b *Board) add(name string, source domain.Source, index int) (domain.Participant, bool) {
	p, ok := b.GetByName(name)
	if !ok {
		b.log.Warn("Cannot place unknown participant", "name", name)
		return domain.Participant{}, false
	}
	if b.IsPlaced(name) {
		b.log.Info("Participant already placed", "name", name)
		return domain.Participant{}, false
	}
	if len(b.placed) >= domain.MaxSlots {
		b.log.Warn("No room left on the video area", "name", name, "placed", len(b.placed))
		return domain.Participant{}, false
	}

	if index < 0 {
		index = b.firstEmptySlot()
	}
	b.placed = append(b.placed, p)

	var slot domain.SlotID
	if index >= 0 && index < len(b.slots) {
		occupant := p
		b.slots[index] = &occupant
		slot = domain.SlotIDFor(index)
	}
	b.markDirty()
	b.record(event.ParticipantPlaced{
		Participant: p,
		Slot:        slot,
		Layout:      b.layout,
		Source:      source,
		At:          b.now(),
	})
	b.log.Info("Participant placed", "name", p.Name, "slot", slot, "layout", b.layout)
	return p, true
}

func (b *Board) removePlaced(p domain.Participant) {
	idx := b.indexOfPlaced(p)
	if idx < 0 {
		return
	}
	removed := b.placed[idx]
	b.placed = append(b.placed[:idx:idx], b.placed[idx+1:]...)
	b.clearSlotOf(removed)
	b.markDirty()
	b.record(event.ParticipantUnplaced{Participant: removed, At: b.now()})
	b.log.Info("Participant removed from video area", "name", removed.Name)
}

func (b *Board) findInRoster(p domain.Participant) (domain.Participant, bool) {
	return lo.Find(b.roster, func(r domain.Participant) bool { return r.SameIdentity(p) })
}

// refreshPlaced copies roster names onto placed entries matched by id.
func (b *Board) refreshPlaced() {
	for i, p := range b.placed {
		current, ok := b.findInRoster(p)
		if !ok || current == p {
			continue
		}
		for j, occupant := range b.slots {
			if occupant != nil && occupant.SameIdentity(p) {
				refreshed := current
				b.slots[j] = &refreshed
			}
		}
		b.placed[i] = current
		b.markDirty()
	}
}
