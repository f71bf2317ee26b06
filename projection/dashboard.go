// Package projection builds the dashboard view from observed events.
// Does not emit events nor mutate the board.
package projection

import (
	"context"
	"share-lab/domain"
	"share-lab/domain/event"
	"sync"
	"time"

	"github.com/samber/lo"
)

const DefaultVoiceLogSize = 20

// ParticipantView is one roster entry as the dashboard lists it.
type ParticipantView struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Placed bool          `json:"placed"`
	Slot   domain.SlotID `json:"slot,omitempty"`
}

type VoiceEntry struct {
	Transcript string    `json:"transcript"`
	Language   string    `json:"language,omitempty"`
	Names      []string  `json:"names"`
	Suppressed []string  `json:"suppressed,omitempty"`
	At         time.Time `json:"at"`
}

type View struct {
	State        domain.BoardState `json:"state"`
	Participants []ParticipantView `json:"participants"`
	VoiceLog     []VoiceEntry      `json:"voice_log"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Dashboard holds the latest board state and the recent voice calls.
type Dashboard struct {
	mu        sync.RWMutex
	state     domain.BoardState
	voiceLog  []VoiceEntry
	logSize   int
	updatedAt time.Time
}

func NewDashboard(logSize int) *Dashboard {
	if logSize <= 0 {
		logSize = DefaultVoiceLogSize
	}
	return &Dashboard{
		state:   domain.BoardState{Layout: domain.LayoutSingle},
		logSize: logSize,
	}
}

func (d *Dashboard) Consume(_ context.Context, e event.DomainEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch evt := e.(type) {
	case event.PlacementChanged:
		d.state = evt.State
	case event.RosterUpdated:
		d.state.Roster = append([]domain.Participant{}, evt.Participants...)
	case event.VoiceMatched:
		d.voiceLog = append(d.voiceLog, VoiceEntry{
			Transcript: evt.Transcript,
			Language:   evt.Language,
			Names:      evt.Names,
			Suppressed: evt.Suppressed,
			At:         evt.At,
		})
		if len(d.voiceLog) > d.logSize {
			d.voiceLog = d.voiceLog[len(d.voiceLog)-d.logSize:]
		}
	default:
		return nil
	}
	d.updatedAt = e.OccurredAt()
	return nil
}

// CurrentState returns a copy of the last known board state.
func (d *Dashboard) CurrentState() domain.BoardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyState(d.state)
}

func (d *Dashboard) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return View{
		State:        copyState(d.state),
		Participants: participantViews(d.state),
		VoiceLog:     append([]VoiceEntry{}, d.voiceLog...),
		UpdatedAt:    d.updatedAt,
	}
}

func (d *Dashboard) Participants() []ParticipantView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return participantViews(d.state)
}

func participantViews(state domain.BoardState) []ParticipantView {
	return lo.Map(state.Roster, func(p domain.Participant, _ int) ParticipantView {
		view := ParticipantView{ID: p.ID, Name: p.Name}
		view.Placed = lo.ContainsBy(state.Placed, p.SameIdentity)
		if slot, ok := lo.Find(state.Slots, func(s domain.Slot) bool {
			return !s.Empty() && p.SameIdentity(*s.Occupant)
		}); ok {
			view.Slot = slot.ID
		}
		return view
	})
}

func copyState(s domain.BoardState) domain.BoardState {
	out := domain.BoardState{
		Layout: s.Layout,
		Active: s.Active,
		Placed: append([]domain.Participant{}, s.Placed...),
		Roster: append([]domain.Participant{}, s.Roster...),
		Slots:  make([]domain.Slot, len(s.Slots)),
	}
	for i, slot := range s.Slots {
		out.Slots[i] = slot
		if slot.Occupant != nil {
			occupant := *slot.Occupant
			out.Slots[i].Occupant = &occupant
		}
	}
	return out
}
