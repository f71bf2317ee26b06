package observability

import (
	"context"
	"log/slog"
	"share-lab/domain"
	"share-lab/domain/event"
	"sort"
	"sync"
)

const DefaultStatsHistory = 20

// ParticipantStats is the latest sample of a sender and its recent history, oldest first.
type ParticipantStats struct {
	Name    string               `json:"name"`
	Latest  domain.StreamStats   `json:"latest"`
	History []domain.StreamStats `json:"history"`
	Placed  bool                 `json:"placed"`
}

// StatsBoard keeps the receiver telemetry per participant. A participant's
// samples are dropped when it leaves the video area.
type StatsBoard struct {
	log     *slog.Logger
	mu      sync.RWMutex
	size    int
	entries map[string]*ParticipantStats
	placed  map[string]bool
}

func NewStatsBoard(log *slog.Logger, size int) *StatsBoard {
	if size <= 0 {
		size = DefaultStatsHistory
	}
	return &StatsBoard{
		log:     log,
		size:    size,
		entries: make(map[string]*ParticipantStats),
		placed:  make(map[string]bool),
	}
}

func (s *StatsBoard) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch evt := e.(type) {
	case event.StatsReceived:
		s.record(evt.Stats)
	case event.ParticipantUnplaced:
		delete(s.entries, evt.Participant.Name)
		delete(s.placed, evt.Participant.Name)
	case event.PlacementChanged:
		s.placed = make(map[string]bool, len(evt.State.Placed))
		for _, p := range evt.State.Placed {
			s.placed[p.Name] = true
		}
	case event.BoardReset:
		s.entries = make(map[string]*ParticipantStats)
		s.placed = make(map[string]bool)
	}
	return nil
}

func (s *StatsBoard) record(stats domain.StreamStats) {
	entry, ok := s.entries[stats.Name]
	if !ok {
		entry = &ParticipantStats{Name: stats.Name}
		s.entries[stats.Name] = entry
		s.log.Debug("Tracking stream stats", "name", stats.Name)
	}
	entry.Latest = stats
	entry.History = append(entry.History, stats)
	if len(entry.History) > s.size {
		entry.History = entry.History[len(entry.History)-s.size:]
	}
}

func (s *StatsBoard) Query(name string) (ParticipantStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[name]
	if !ok {
		return ParticipantStats{}, false
	}
	return s.copyOf(entry), true
}

// All returns every tracked participant sorted by name, optionally only
// those currently on screen.
func (s *StatsBoard) All(placedOnly bool) []ParticipantStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ParticipantStats, 0, len(s.entries))
	for name, entry := range s.entries {
		if placedOnly && !s.placed[name] {
			continue
		}
		out = append(out, s.copyOf(entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *StatsBoard) copyOf(entry *ParticipantStats) ParticipantStats {
	c := *entry
	c.History = append([]domain.StreamStats{}, entry.History...)
	c.Placed = s.placed[entry.Name]
	return c
}
