//go:generate go run go.uber.org/mock/mockgen -source=snapshot_repository.go -destination=../../mocks/mock_snapshot_repository.go -package=mocks
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"share-lab/domain"
	sharederrors "share-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	lastKey       = "placement:last"
	historyPrefix = "placement:history:"
)

// SnapshotRecord is one placement the dashboard went through.
type SnapshotRecord struct {
	ID           uuid.UUID            `json:"id"`
	Reason       string               `json:"reason"`
	Published    bool                 `json:"published"`
	Layout       domain.Layout        `json:"layout"`
	Participants []domain.Participant `json:"participants"`
	At           time.Time            `json:"at"`
}

func (r SnapshotRecord) Snapshot() domain.Snapshot {
	return domain.Snapshot{Layout: r.Layout, Participants: r.Participants}
}

type ISnapshotRepository interface {
	Store(record SnapshotRecord) error
	Last() (SnapshotRecord, error)
	History(cursor *string) ([]SnapshotRecord, *string, error)
}

type SnapshotRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit int
}

func NewSnapshotRepository(db *badger.DB, log *slog.Logger, limit int) *SnapshotRepository {
	return &SnapshotRepository{db: db, log: log, limit: limit}
}

// Store appends the record to the history and replaces the last snapshot in
// the same transaction. History keys are "placement:history:{nanos_padded}:{uuid}"
// so that a prefix scan returns them in chronological order.
func (s *SnapshotRepository) Store(record SnapshotRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Participants == nil {
		record.Participants = []domain.Participant{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", record.ID, err)
	}
	key := fmt.Sprintf("%s%019d:%s", historyPrefix, record.At.UnixNano(), record.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return err
		}
		return txn.Set([]byte(lastKey), data)
	})
}

func (s *SnapshotRepository) Last() (SnapshotRecord, error) {
	var record SnapshotRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(lastKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return sharederrors.ErrSnapshotMissing
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			return json.Unmarshal(v, &record)
		})
	})
	if err != nil {
		return SnapshotRecord{}, err
	}
	return record, nil
}

// History returns the most recent records first, at most limit per page.
// The returned cursor feeds the next call; nil starts from the newest record.
func (s *SnapshotRepository) History(cursor *string) ([]SnapshotRecord, *string, error) {
	var records []SnapshotRecord
	var last string
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(historyPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(historyPrefix), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(historyPrefix), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if s.limit > 0 && len(records) == s.limit {
				s.log.Debug("History page full", "limit", s.limit)
				break
			}
			item := it.Item()
			last = string(item.Key()[len(prefix):])
			err := item.Value(func(v []byte) error {
				var record SnapshotRecord
				if err := json.Unmarshal(v, &record); err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return records, &last, nil
}
