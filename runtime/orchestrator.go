// Package runtime wires commands, the board worker and event propagation.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/errors"
	"share-lab/placement"
	"share-lab/runtime/workers"
	"sync"
	"time"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	board          *placement.Board
	permanentSinks []contract.EventSink
	extraWorkers   []contract.Worker
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	requests       chan workers.Request
	domainEvents   chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, board *placement.Board,
	bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:          log,
		board:        board,
		supervisor:   supervisor,
		registry:     registry,
		requests:     make(chan workers.Request, bufferSize),
		domainEvents: make(chan event.DomainEvent, bufferSize),
		sinkTimeout:  sinkTimeout,
	}
}

// RegisterSinks adds sinks receiving every domain event. Sinks must be
// registered before Start.
func (o *Orchestrator) RegisterSinks(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// AddWorkers supervises extra workers alongside the board and the fanout.
func (o *Orchestrator) AddWorkers(w ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extraWorkers = append(o.extraWorkers, w...)
}

// Dispatch enqueues a command without waiting. A full queue drops it.
func (o *Orchestrator) Dispatch(cmd domain.Command) {
	select {
	case o.requests <- workers.Request{Command: cmd}:
	default:
		o.log.Warn(fmt.Sprintf("Command queue full, dropping %s", cmd.CommandName()))
	}
}

// Execute enqueues a command and waits for the board answer.
func (o *Orchestrator) Execute(ctx context.Context, cmd domain.Command) (domain.Result, error) {
	reply := make(chan domain.Result, 1)
	select {
	case o.requests <- workers.Request{Command: cmd, Reply: reply}:
	case <-ctx.Done():
		return domain.Result{}, fmt.Errorf("%s: %w", cmd.CommandName(), errors.ErrQueueFull)
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return domain.Result{}, fmt.Errorf("%s: %w", cmd.CommandName(), errors.ErrCommandTimeout)
	}
}

// Emit pushes an event that did not come from the board (stats, voice) to the fanout.
func (o *Orchestrator) Emit(e event.DomainEvent) {
	select {
	case o.domainEvents <- e:
	default:
		o.log.Warn("Event queue full, dropping event", "event", e.Name())
	}
}

func (o *Orchestrator) RegisterSession(sessionID string, sink contract.EventSink) {
	o.registry.Subscribe(sessionID, sink)
	o.log.Debug("Dashboard session registered", "session", sessionID)
}

func (o *Orchestrator) UnregisterSession(sessionID string) {
	o.registry.Unsubscribe(sessionID)
	o.log.Debug("Dashboard session unregistered", "session", sessionID)
}

// Channels lists the internal queues for capacity sampling.
func (o *Orchestrator) Channels() []workers.NamedChannel {
	return []workers.NamedChannel{
		{Name: "board_requests", Channel: o.requests},
		{Name: "domain_events", Channel: o.domainEvents},
	}
}

// Start registers the board worker, the fanout and the extra workers to the
// supervisor, then blocks until the context is canceled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	boardWorker := workers.NewBoardWorker(o.board, o.requests, o.domainEvents, o.log)
	fanout := workers.NewEventFanout(
		o.log,
		append([]contract.EventSink(nil), o.permanentSinks...),
		o.registry,
		o.domainEvents,
		o.sinkTimeout,
	)
	o.supervisor.Add(boardWorker, fanout)
	o.supervisor.Add(o.extraWorkers...)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised context, every worker returns on its own.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
