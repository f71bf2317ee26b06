package event

import (
	"log/slog"
	"share-lab/errors"
)

type MessageDroppedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewMessageDroppedHandler(log *slog.Logger, counter *Counter) *MessageDroppedHandler {
	return &MessageDroppedHandler{log: log, counter: counter}
}

func (h *MessageDroppedHandler) Handle(event Event) {
	if event.Type != MessageDroppedType {
		return
	}
	payload, ok := event.Payload.(MessageDropped)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.counter.Increment(MessageDroppedType)
	h.log.Debug("inbound message dropped",
		"topic", payload.Topic,
		"reason", payload.Reason,
		"total", h.counter.Get(MessageDroppedType))
}
