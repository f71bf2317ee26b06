//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"share-lab/domain"
	"share-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry keeps the sinks of the connected dashboard sessions.
type IRegistry interface {
	GetSinks() []EventSink
	Subscribe(sessionID string, sink EventSink)
	Unsubscribe(sessionID string)
}

// PlacementPublisher sends the placement snapshot to the receiver.
// Delivery is best effort.
type PlacementPublisher interface {
	PublishPlacement(snapshot domain.Snapshot) error
}

// Dispatcher enqueues a command for the board without waiting for it.
type Dispatcher interface {
	Dispatch(cmd domain.Command)
}

// EventEmitter hands an event produced outside the board to the fanout.
type EventEmitter interface {
	Emit(e event.DomainEvent)
}

type IOrchestrator interface {
	Dispatcher
	EventEmitter
	Execute(ctx context.Context, cmd domain.Command) (domain.Result, error)
	RegisterSinks(sink ...EventSink)
	RegisterSession(sessionID string, sink EventSink)
	UnregisterSession(sessionID string)
	Start(ctx context.Context) error
	Stop()
}

// Transcriber turns a recorded voice command into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// RosterPublisher announces the signaling roster to the dashboard.
type RosterPublisher interface {
	PublishRoster(participants []domain.Participant) error
	PublishLeft(participant domain.Participant) error
}

// HealthPublisher announces the liveness of a process.
type HealthPublisher interface {
	PublishHealth(health domain.NodeHealth) error
}

// StateProvider exposes the latest known board state.
type StateProvider interface {
	CurrentState() domain.BoardState
}
