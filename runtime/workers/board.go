package workers

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/placement"
)

// Ensure *BoardWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*BoardWorker)(nil)

// Request is a command on its way to the board. Reply is optional and must be
// buffered, the worker never waits for a reader.
type Request struct {
	Command domain.Command
	Reply   chan domain.Result
}

// BoardWorker is the only goroutine touching the placement board. Commands
// are applied one at a time and the board outbox is flushed after each one.
type BoardWorker struct {
	board    *placement.Board
	requests chan Request
	events   chan event.DomainEvent
	log      *slog.Logger
}

func NewBoardWorker(
	board *placement.Board,
	requests chan Request,
	events chan event.DomainEvent,
	log *slog.Logger) *BoardWorker {
	return &BoardWorker{
		board:    board,
		requests: requests,
		events:   events,
		log:      log,
	}
}

func (w *BoardWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping board worker")
			return ctx.Err()
		case req, ok := <-w.requests:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			result := w.Apply(req.Command)
			if req.Reply != nil {
				select {
				case req.Reply <- result:
				default:
					w.log.Debug("Command reply dropped", "command", req.Command.CommandName())
				}
			}
			if err := w.flush(ctx); err != nil {
				return err
			}
		}
	}
}

// Apply runs one command against the board.
func (w *BoardWorker) Apply(cmd domain.Command) domain.Result {
	accepted := true
	switch c := cmd.(type) {
	case domain.UpdateRosterCommand:
		w.board.UpdateAll(c.Participants)
	case domain.ParticipantLeftCommand:
		w.board.ParticipantLeft(c.Participant)
	case domain.PlaceCommand:
		accepted = w.board.Place(c.Name, c.Source)
	case domain.PlaceInSlotCommand:
		accepted = w.board.PlaceInSlot(c.Name, c.Slot)
	case domain.PlaceWithLayoutCommand:
		accepted = w.board.PlaceWithLayout(c.Name, c.Layout)
	case domain.RemoveCommand:
		accepted = w.board.Remove(c.Name)
	case domain.SelectLayoutCommand:
		accepted = w.board.SelectLayout(c.Layout)
	case domain.ReconcileCommand:
		w.board.Reconcile(c.Snapshot)
	case domain.ResetCommand:
		w.board.Reset()
	case domain.GetStateCommand:
	default:
		w.log.Warn(fmt.Sprintf("Unknown command %T", cmd))
		accepted = false
	}
	return domain.Result{Accepted: accepted, State: w.board.State()}
}

func (w *BoardWorker) flush(ctx context.Context) error {
	for _, evt := range w.board.FlushEvents() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w.events <- evt:
		}
	}
	return nil
}
