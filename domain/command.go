package domain

// Command is a request to mutate or query the placement board.
// Every command is applied by a single goroutine, in arrival order.
type Command interface {
	CommandName() string
}

// Source tells who asked for a placement.
type Source string

const (
	SourceAdmin Source = "admin"
	SourceVoice Source = "voice"
	SourceMQTT  Source = "mqtt"
)

type UpdateRosterCommand struct {
	Participants []Participant
}

func (UpdateRosterCommand) CommandName() string { return "update_roster" }

type ParticipantLeftCommand struct {
	Participant Participant
}

func (ParticipantLeftCommand) CommandName() string { return "participant_left" }

// PlaceCommand drops a participant onto the video area. Voice calls use it too.
type PlaceCommand struct {
	Name   string
	Source Source
}

func (PlaceCommand) CommandName() string { return "place" }

type PlaceInSlotCommand struct {
	Name string
	Slot SlotID
}

func (PlaceInSlotCommand) CommandName() string { return "place_in_slot" }

type PlaceWithLayoutCommand struct {
	Name   string
	Layout Layout
}

func (PlaceWithLayoutCommand) CommandName() string { return "place_with_layout" }

type RemoveCommand struct {
	Name string
}

func (RemoveCommand) CommandName() string { return "remove" }

type SelectLayoutCommand struct {
	Layout Layout
}

func (SelectLayoutCommand) CommandName() string { return "select_layout" }

// ReconcileCommand applies a snapshot reported by the receiver.
type ReconcileCommand struct {
	Snapshot Snapshot
}

func (ReconcileCommand) CommandName() string { return "reconcile" }

type ResetCommand struct{}

func (ResetCommand) CommandName() string { return "reset" }

type GetStateCommand struct{}

func (GetStateCommand) CommandName() string { return "get_state" }

// Result is what the board answers to a command.
type Result struct {
	Accepted bool
	State    BoardState
}
