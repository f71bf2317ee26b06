package workers

import (
	"context"
	"log/slog"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/mocks"
	"share-lab/placement"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBoardWorker_AppliesCommandsInOrder(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPlacementPublisher(ctrl)
	publisher.EXPECT().PublishPlacement(gomock.Any()).Return(nil).Times(2)

	requests := make(chan Request, 10)
	events := make(chan event.DomainEvent, 50)
	worker := NewBoardWorker(placement.NewBoard(log, publisher), requests, events, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// Given a roster and two placements sent without waiting
	requests <- Request{Command: domain.UpdateRosterCommand{Participants: []domain.Participant{
		{ID: "1", Name: "Alice"}, {ID: "2", Name: "Bob"},
	}}}
	requests <- Request{Command: domain.PlaceCommand{Name: "Alice", Source: domain.SourceAdmin}}
	requests <- Request{Command: domain.PlaceCommand{Name: "Bob", Source: domain.SourceVoice}}

	// When the state is queried behind them
	reply := make(chan domain.Result, 1)
	requests <- Request{Command: domain.GetStateCommand{}, Reply: reply}

	// Then the reply reflects every previous command
	select {
	case res := <-reply:
		req.True(res.Accepted)
		req.Equal(domain.LayoutDual, res.State.Layout)
		req.Len(res.State.Placed, 2)
	case <-time.After(time.Second):
		req.Fail("no reply from board worker")
	}

	// Then the outbox was flushed to the event channel
	req.Eventually(func() bool { return len(events) >= 5 }, time.Second, 10*time.Millisecond)
	first := <-events
	req.Equal("roster_updated", first.Name())
}

func TestBoardWorker_RejectedCommand(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	worker := NewBoardWorker(placement.NewBoard(log, nil), nil, nil, log)

	res := worker.Apply(domain.PlaceCommand{Name: "Nobody"})
	req.False(res.Accepted)
	req.False(res.State.Active)

	res = worker.Apply(domain.SelectLayoutCommand{Layout: domain.LayoutTriple})
	req.True(res.Accepted)
	req.Len(res.State.Slots, 3)

	res = worker.Apply(unknownCommand{})
	req.False(res.Accepted)
}

type unknownCommand struct{}

func (unknownCommand) CommandName() string { return "unknown" }

func TestTelemetryWorker_DispatchesToHandlers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	counter := event.NewCounter()
	telemetry := make(chan event.Event, 10)
	worker := NewTelemetryWorker(log, telemetry, []event.Handler{
		event.NewWorkerRestartedAfterPanicHandler(log, counter),
		event.NewMessageDroppedHandler(log, counter),
		event.NewChannelCapacityHandler(log, 2),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	telemetry <- event.Event{Type: event.RestartedAfterPanicType, Payload: event.WorkerRestartedAfterPanic{WorkerName: "BoardWorker"}}
	telemetry <- event.Event{Type: event.MessageDroppedType, Payload: event.MessageDropped{Topic: "screen/response", Reason: "bad json"}}
	telemetry <- event.Event{Type: event.MessageDroppedType, Payload: "not a payload"}
	telemetry <- event.Event{Type: event.ChannelCapacityType, Payload: event.ChannelCapacity{ChannelName: "commands", Capacity: 10, Length: 9}}

	req.Eventually(func() bool {
		return counter.Get(event.RestartedAfterPanicType) == 1 && counter.Get(event.MessageDroppedType) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	commands := make(chan Request, 4)
	commands <- Request{}
	telemetry := make(chan event.Event, 4)
	worker := NewChannelCapacityWorker(slog.Default(), []NamedChannel{
		{Name: "commands", Channel: commands},
		{Name: "not-a-channel", Channel: 42},
	}, telemetry, time.Minute)

	worker.sample()

	req.Len(telemetry, 1)
	evt := <-telemetry
	payload := evt.Payload.(event.ChannelCapacity)
	req.Equal("commands", payload.ChannelName)
	req.Equal(4, payload.Capacity)
	req.Equal(1, payload.Length)
}
