package event

import (
	"share-lab/domain"
	"time"
)

type DomainEvent interface {
	Name() string
	OccurredAt() time.Time
}

const (
	ReasonReconcile = "reconcile"
)

type RosterUpdated struct {
	Participants []domain.Participant `json:"participants"`
	At           time.Time            `json:"at"`
}

func (e RosterUpdated) Name() string          { return "roster_updated" }
func (e RosterUpdated) OccurredAt() time.Time { return e.At }

type ParticipantPlaced struct {
	Participant domain.Participant `json:"participant"`
	Slot        domain.SlotID      `json:"slot"`
	Layout      domain.Layout      `json:"layout"`
	Source      domain.Source      `json:"source"`
	At          time.Time          `json:"at"`
}

func (e ParticipantPlaced) Name() string          { return "participant_placed" }
func (e ParticipantPlaced) OccurredAt() time.Time { return e.At }

type ParticipantUnplaced struct {
	Participant domain.Participant `json:"participant"`
	At          time.Time          `json:"at"`
}

func (e ParticipantUnplaced) Name() string          { return "participant_unplaced" }
func (e ParticipantUnplaced) OccurredAt() time.Time { return e.At }

// PlacementChanged carries the board state once an operation completed.
// Published is false for silent changes such as a reconcile.
type PlacementChanged struct {
	State     domain.BoardState `json:"state"`
	Reason    string            `json:"reason"`
	Published bool              `json:"published"`
	At        time.Time         `json:"at"`
}

func (e PlacementChanged) Name() string          { return "placement_changed" }
func (e PlacementChanged) OccurredAt() time.Time { return e.At }

type BoardReset struct {
	At time.Time `json:"at"`
}

func (e BoardReset) Name() string          { return "board_reset" }
func (e BoardReset) OccurredAt() time.Time { return e.At }

type StatsReceived struct {
	Stats domain.StreamStats `json:"stats"`
	At    time.Time          `json:"at"`
}

func (e StatsReceived) Name() string          { return "stats_received" }
func (e StatsReceived) OccurredAt() time.Time { return e.At }

// VoiceMatched is emitted each time a transcript named at least one participant.
type VoiceMatched struct {
	Transcript string    `json:"transcript"`
	Language   string    `json:"language,omitempty"`
	Names      []string  `json:"names"`
	Suppressed []string  `json:"suppressed,omitempty"`
	At         time.Time `json:"at"`
}

func (e VoiceMatched) Name() string          { return "voice_matched" }
func (e VoiceMatched) OccurredAt() time.Time { return e.At }

type NodeHeartbeat struct {
	Health domain.NodeHealth `json:"health"`
	At     time.Time         `json:"at"`
}

func (e NodeHeartbeat) Name() string          { return "node_heartbeat" }
func (e NodeHeartbeat) OccurredAt() time.Time { return e.At }
