package event

import (
	"log/slog"
	"share-lab/errors"
)

// ChannelCapacityHandler warns when the command or event queue of the board
// is close to full, before Dispatch starts dropping commands.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, lowCapacityThreshold: lowCapacityThreshold}
}

func (h ChannelCapacityHandler) Handle(event Event) {
	if event.Type != ChannelCapacityType {
		return
	}
	payload, ok := event.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.log.Debug("queue usage", "queue", payload.ChannelName, "length", payload.Length, "capacity", payload.Capacity)
	if payload.Capacity <= 0 {
		return
	}
	left := payload.Capacity - payload.Length
	if left <= h.lowCapacityThreshold {
		h.log.Warn("queue almost full", "queue", payload.ChannelName, "left", left)
	}
}
