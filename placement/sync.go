package placement

import (
	"share-lab/domain"
	"share-lab/domain/event"
)

// Publish sends the current layout and placed list to the receiver.
// Failures are logged and never retried, the next mutation publishes again.
func (b *Board) Publish() {
	if b.publisher == nil {
		return
	}
	snapshot := domain.Snapshot{
		Layout:       b.layout,
		Participants: append([]domain.Participant{}, b.placed...),
	}
	if err := b.publisher.PublishPlacement(snapshot); err != nil {
		b.log.Warn("Placement publish failed", "layout", snapshot.Layout, "err", err)
		return
	}
	b.log.Debug("Placement published", "layout", snapshot.Layout, "placed", len(snapshot.Participants))
}

// Reconcile adopts the placement reported by the receiver. Entries without a
// usable name or whose id is not in the roster are discarded. Reconcile never
// publishes back.
func (b *Board) Reconcile(snapshot domain.Snapshot) {
	layout := snapshot.Layout
	if !layout.Valid() {
		b.log.Warn("Receiver reported an invalid layout, using 1", "layout", snapshot.Layout)
		layout = domain.LayoutSingle
	}

	var kept []domain.Participant
	for _, p := range snapshot.Participants {
		if !p.IsPlaceable() || p.ID == "" {
			b.log.Debug("Ignoring unusable snapshot entry", "name", p.Name, "id", p.ID)
			continue
		}
		current, ok := b.rosterByID(p.ID)
		if !ok {
			b.log.Debug("Ignoring snapshot entry absent from the roster", "name", p.Name, "id", p.ID)
			continue
		}
		if containsID(kept, current.ID) {
			continue
		}
		kept = append(kept, current)
	}
	if len(kept) > layout.Capacity() {
		b.log.Warn("Snapshot holds more participants than its layout, truncating",
			"layout", layout, "participants", len(kept))
		kept = kept[:layout.Capacity()]
	}

	// The outbox still records what happened, only the publish is skipped.
	for _, p := range b.placed {
		if !containsID(kept, p.ID) {
			b.record(event.ParticipantUnplaced{Participant: p, At: b.now()})
		}
	}
	if len(kept) == 0 {
		b.placed = nil
		b.slots = nil
		b.layout = domain.LayoutSingle
		b.record(event.BoardReset{At: b.now()})
	} else {
		b.layout = layout
		b.slots = make([]*domain.Participant, layout.Capacity())
		b.placed = nil
		for i, p := range kept {
			occupant := p
			b.slots[i] = &occupant
			b.placed = append(b.placed, p)
		}
	}
	b.record(event.PlacementChanged{
		State:  b.State(),
		Reason: event.ReasonReconcile,
		At:     b.now(),
	})
	b.log.Info("Placement reconciled with receiver", "layout", b.layout, "placed", len(b.placed))
}

func (b *Board) rosterByID(id string) (domain.Participant, bool) {
	for _, p := range b.roster {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Participant{}, false
}

func containsID(participants []domain.Participant, id string) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
