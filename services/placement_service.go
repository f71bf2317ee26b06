package services

import (
	"context"
	"fmt"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/errors"
	"share-lab/infrastructure/storage"

	"github.com/samber/lo"
)

type IPlacementService interface {
	Place(ctx context.Context, name string) (domain.BoardState, error)
	PlaceInSlot(ctx context.Context, name string, slot domain.SlotID) (domain.BoardState, error)
	PlaceWithLayout(ctx context.Context, name string, layout domain.Layout) (domain.BoardState, error)
	Remove(ctx context.Context, name string) (domain.BoardState, error)
	SelectLayout(ctx context.Context, layout domain.Layout) (domain.BoardState, error)
	Reset(ctx context.Context) (domain.BoardState, error)
	State(ctx context.Context) (domain.BoardState, error)
	History(cursor *string) ([]storage.SnapshotRecord, *string, error)
}

// PlacementService runs admin operations on the board and waits for their outcome.
// A rejected operation is reported with the sentinel matching the board state.
type PlacementService struct {
	orchestrator contract.IOrchestrator
	history      storage.ISnapshotRepository
}

func NewPlacementService(o contract.IOrchestrator, history storage.ISnapshotRepository) *PlacementService {
	return &PlacementService{orchestrator: o, history: history}
}

func (s *PlacementService) Place(ctx context.Context, name string) (domain.BoardState, error) {
	return s.execute(ctx, domain.PlaceCommand{Name: name, Source: domain.SourceAdmin}, func(state domain.BoardState) error {
		return placeRejection(state, name)
	})
}

func (s *PlacementService) PlaceInSlot(ctx context.Context, name string, slot domain.SlotID) (domain.BoardState, error) {
	return s.execute(ctx, domain.PlaceInSlotCommand{Name: name, Slot: slot}, func(state domain.BoardState) error {
		index, ok := slot.Index()
		if !ok || index >= len(state.Slots) {
			return fmt.Errorf("%w: %s", errors.ErrInvalidSlot, slot)
		}
		if !state.Slots[index].Empty() {
			return fmt.Errorf("%w: %s", errors.ErrSlotOccupied, slot)
		}
		return placeRejection(state, name)
	})
}

func (s *PlacementService) PlaceWithLayout(ctx context.Context, name string, layout domain.Layout) (domain.BoardState, error) {
	return s.execute(ctx, domain.PlaceWithLayoutCommand{Name: name, Layout: layout}, func(state domain.BoardState) error {
		if !layout.Valid() {
			return fmt.Errorf("%w: %d", errors.ErrInvalidLayout, layout)
		}
		err := placeRejection(state, name)
		if err == errors.ErrRejected && len(state.Placed) > layout.Capacity() {
			return fmt.Errorf("%w: %d placed, layout %d", errors.ErrLayoutTooSmall, len(state.Placed), layout)
		}
		return err
	})
}

func (s *PlacementService) Remove(ctx context.Context, name string) (domain.BoardState, error) {
	return s.execute(ctx, domain.RemoveCommand{Name: name}, func(domain.BoardState) error {
		return fmt.Errorf("%w: %s is not placed", errors.ErrUnknownParticipant, name)
	})
}

func (s *PlacementService) SelectLayout(ctx context.Context, layout domain.Layout) (domain.BoardState, error) {
	return s.execute(ctx, domain.SelectLayoutCommand{Layout: layout}, func(state domain.BoardState) error {
		if !layout.Valid() {
			return fmt.Errorf("%w: %d", errors.ErrInvalidLayout, layout)
		}
		return fmt.Errorf("%w: %d placed, layout %d", errors.ErrLayoutTooSmall, len(state.Placed), layout)
	})
}

func (s *PlacementService) Reset(ctx context.Context) (domain.BoardState, error) {
	return s.execute(ctx, domain.ResetCommand{}, nil)
}

func (s *PlacementService) State(ctx context.Context) (domain.BoardState, error) {
	return s.execute(ctx, domain.GetStateCommand{}, nil)
}

func (s *PlacementService) History(cursor *string) ([]storage.SnapshotRecord, *string, error) {
	return s.history.History(cursor)
}

func (s *PlacementService) execute(ctx context.Context, cmd domain.Command, diagnose func(domain.BoardState) error) (domain.BoardState, error) {
	result, err := s.orchestrator.Execute(ctx, cmd)
	if err != nil {
		return domain.BoardState{}, fmt.Errorf("%s: %w", cmd.CommandName(), err)
	}
	if result.Accepted {
		return result.State, nil
	}
	if diagnose == nil {
		return result.State, errors.ErrRejected
	}
	return result.State, diagnose(result.State)
}

// placeRejection explains a refused placement from the unchanged board state.
func placeRejection(state domain.BoardState, name string) error {
	if !lo.ContainsBy(state.Roster, func(p domain.Participant) bool { return p.Name == name }) {
		return fmt.Errorf("%w: %s", errors.ErrUnknownParticipant, name)
	}
	if lo.ContainsBy(state.Placed, func(p domain.Participant) bool { return p.Name == name }) {
		return fmt.Errorf("%w: %s", errors.ErrAlreadyPlaced, name)
	}
	if len(state.Placed) >= domain.MaxSlots {
		return errors.ErrBoardFull
	}
	return errors.ErrRejected
}
