package sink

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/domain/event"
	"share-lab/infrastructure/storage"

	"github.com/google/uuid"
)

// HistorySink persists every placement the board went through.
type HistorySink struct {
	repository storage.ISnapshotRepository
	log        *slog.Logger
}

func NewHistorySink(repository storage.ISnapshotRepository, log *slog.Logger) HistorySink {
	return HistorySink{repository: repository, log: log}
}

func (h HistorySink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.PlacementChanged:
		if err := h.repository.Store(toSnapshotRecord(evt)); err != nil {
			return fmt.Errorf("store placement history: %w", err)
		}
		h.log.Debug("Placement stored", "reason", evt.Reason, "layout", evt.State.Layout)
		return nil
	default:
		return nil
	}
}

func toSnapshotRecord(evt event.PlacementChanged) storage.SnapshotRecord {
	snapshot := evt.State.Snapshot()
	return storage.SnapshotRecord{
		ID:           uuid.New(),
		Reason:       evt.Reason,
		Published:    evt.Published,
		Layout:       snapshot.Layout,
		Participants: snapshot.Participants,
		At:           evt.At,
	}
}
