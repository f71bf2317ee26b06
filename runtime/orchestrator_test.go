package runtime_test

import (
	"context"
	"log/slog"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/errors"
	"share-lab/mocks"
	"share-lab/placement"
	"share-lab/runtime"
	"share-lab/runtime/workers"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type RecordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *RecordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *RecordingSink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, e := range s.events {
		names = append(names, e.Name())
	}
	return names
}

func newOrchestrator(t *testing.T, bufferSize int) (*runtime.Orchestrator, *mocks.MockPlacementPublisher) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPlacementPublisher(ctrl)
	board := placement.NewBoard(log, publisher)
	sup := workers.NewSupervisor(log, nil, 0)
	return runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), board, bufferSize, time.Second), publisher
}

func Test_Orchestrator_dispatches_domain_events_to_sinks(t *testing.T) {
	req := require.New(t)
	orchestrator, publisher := newOrchestrator(t, 10)
	publisher.EXPECT().PublishPlacement(domain.Snapshot{
		Layout:       domain.LayoutSingle,
		Participants: []domain.Participant{{ID: "1", Name: "alice"}},
	}).Return(nil).Times(1)

	permanent := &RecordingSink{}
	session := &RecordingSink{}
	orchestrator.RegisterSinks(permanent)
	orchestrator.RegisterSession("dashboard-1", session)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = orchestrator.Start(ctx) }()

	// When a roster arrives then alice is placed
	orchestrator.Dispatch(domain.UpdateRosterCommand{Participants: []domain.Participant{{ID: "1", Name: "alice"}}})
	res, err := orchestrator.Execute(ctx, domain.PlaceCommand{Name: "alice", Source: domain.SourceAdmin})

	// Then the board accepted it
	req.NoError(err)
	req.True(res.Accepted)
	req.Equal([]domain.Participant{{ID: "1", Name: "alice"}}, res.State.Placed)

	// Then both sinks saw the same events
	want := []string{"roster_updated", "participant_placed", "placement_changed"}
	req.Eventually(func() bool { return len(permanent.Names()) == 3 && len(session.Names()) == 3 },
		time.Second, 10*time.Millisecond)
	assert.Equal(t, want, permanent.Names())
	assert.Equal(t, want, session.Names())

	// When an external event is emitted, it reaches the sinks too
	orchestrator.Emit(event.StatsReceived{Stats: domain.StreamStats{Name: "alice", FPS: 30}})
	req.Eventually(func() bool { return len(permanent.Names()) == 4 }, time.Second, 10*time.Millisecond)

	// When the session leaves, it stops receiving events
	orchestrator.UnregisterSession("dashboard-1")
	orchestrator.Emit(event.BoardReset{})
	req.Eventually(func() bool { return len(permanent.Names()) == 5 }, time.Second, 10*time.Millisecond)
	req.Len(session.Names(), 4)

	orchestrator.Stop()
}

func Test_Orchestrator_dispatch_drops_when_queue_is_full(t *testing.T) {
	req := require.New(t)
	// Given an orchestrator that is not started, its queue has room for one command
	orchestrator, _ := newOrchestrator(t, 1)
	orchestrator.Dispatch(domain.ResetCommand{})
	orchestrator.Dispatch(domain.ResetCommand{})

	// When a caller waits for an answer, it gives up with the context
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := orchestrator.Execute(ctx, domain.GetStateCommand{})
	req.ErrorIs(err, errors.ErrQueueFull)

	for _, nc := range orchestrator.Channels() {
		req.NotEmpty(nc.Name)
	}
}
