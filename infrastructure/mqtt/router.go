package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/errors"
	"sort"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// HandlerFunc decodes one payload. A returned error drops the message.
type HandlerFunc func(payload []byte) error

// Router maps subscribed topics to their handler.
// Undecodable payloads are dropped and reported on the telemetry channel,
// the board keeps its last known good state.
type Router struct {
	log       *slog.Logger
	telemetry chan event.Event
	handlers  map[string]HandlerFunc
	now       func() time.Time
}

func NewRouter(log *slog.Logger, telemetry chan event.Event) *Router {
	return &Router{
		log:       log,
		telemetry: telemetry,
		handlers:  make(map[string]HandlerFunc),
		now:       time.Now,
	}
}

func (r *Router) On(topic string, handler HandlerFunc) *Router {
	r.handlers[topic] = handler
	return r
}

func (r *Router) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Handle has the paho.MessageHandler signature.
func (r *Router) Handle(_ paho.Client, msg paho.Message) {
	r.Route(msg.Topic(), msg.Payload())
}

func (r *Router) Route(topic string, payload []byte) {
	handler, ok := r.handlers[topic]
	if !ok {
		r.log.Debug("No handler for topic", "topic", topic)
		return
	}
	if err := handler(payload); err != nil {
		r.log.Warn("MQTT message dropped", "topic", topic, "size", len(payload), "err", err)
		r.notifyDropped(topic, err)
	}
}

func (r *Router) notifyDropped(topic string, err error) {
	if r.telemetry == nil {
		return
	}
	evt := event.Event{
		Type:      event.MessageDroppedType,
		CreatedAt: r.now(),
		Payload:   event.MessageDropped{Topic: topic, Reason: err.Error()},
	}
	select {
	case r.telemetry <- evt:
	default:
		r.log.Debug("Telemetry channel full, drop notification lost", "topic", topic)
	}
}

func decode[T any](payload []byte) (T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return v, nil
}

// RosterHandler dispatches a full roster received on participant/update or participant/response.
func RosterHandler(dispatcher contract.Dispatcher) HandlerFunc {
	return func(payload []byte) error {
		participants, err := decode[[]domain.Participant](payload)
		if err != nil {
			return err
		}
		dispatcher.Dispatch(domain.UpdateRosterCommand{Participants: participants})
		return nil
	}
}

func LeftHandler(dispatcher contract.Dispatcher) HandlerFunc {
	return func(payload []byte) error {
		participant, err := decode[domain.Participant](payload)
		if err != nil {
			return err
		}
		if participant.ID == "" && participant.Name == "" {
			return fmt.Errorf("%w: participant without id nor name", errors.ErrInvalidPayload)
		}
		dispatcher.Dispatch(domain.ParticipantLeftCommand{Participant: participant})
		return nil
	}
}

// ScreenHandler reconciles with the placement the receiver actually shows.
func ScreenHandler(dispatcher contract.Dispatcher) HandlerFunc {
	return func(payload []byte) error {
		snapshot, err := decode[domain.Snapshot](payload)
		if err != nil {
			return err
		}
		dispatcher.Dispatch(domain.ReconcileCommand{Snapshot: snapshot})
		return nil
	}
}

func StatsHandler(emitter contract.EventEmitter, now func() time.Time) HandlerFunc {
	return func(payload []byte) error {
		stats, err := decode[domain.StreamStats](payload)
		if err != nil {
			return err
		}
		if stats.Name == "" {
			return fmt.Errorf("%w: stats without name", errors.ErrInvalidPayload)
		}
		at := now()
		if stats.At.IsZero() {
			stats.At = at
		}
		emitter.Emit(event.StatsReceived{Stats: stats, At: at})
		return nil
	}
}
