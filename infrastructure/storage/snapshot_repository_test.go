package storage

import (
	"io"
	"log/slog"
	"share-lab/domain"
	sharederrors "share-lab/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// SetupTestDB initializes a temporary Badger instance for testing
func SetupTestDB(t *testing.T) (*badger.DB, func()) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	return db, func() {
		db.Close()
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(at time.Time, layout domain.Layout, names ...string) SnapshotRecord {
	var participants []domain.Participant
	for _, n := range names {
		participants = append(participants, domain.Participant{ID: "id-" + n, Name: n})
	}
	return SnapshotRecord{
		ID:           uuid.New(),
		Reason:       "place",
		Published:    true,
		Layout:       layout,
		Participants: participants,
		At:           at,
	}
}

func TestSnapshotRepository_LastMissing(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db, discardLogger(), 10)

	_, err := repo.Last()

	require.ErrorIs(t, err, sharederrors.ErrSnapshotMissing)
}

func TestSnapshotRepository_StoreKeepsLast(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db, discardLogger(), 10)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Given two successive placements
	req.NoError(repo.Store(record(base, domain.LayoutSingle, "Alice")))
	req.NoError(repo.Store(record(base.Add(time.Second), domain.LayoutDual, "Alice", "Bob")))

	// Then the last one wins
	last, err := repo.Last()
	req.NoError(err)
	req.Equal(domain.LayoutDual, last.Layout)
	req.Equal(domain.Snapshot{
		Layout: domain.LayoutDual,
		Participants: []domain.Participant{
			{ID: "id-Alice", Name: "Alice"},
			{ID: "id-Bob", Name: "Bob"},
		},
	}, last.Snapshot())
	req.True(last.At.Equal(base.Add(time.Second)))
}

func TestSnapshotRepository_StoreFillsDefaults(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db, discardLogger(), 10)

	req.NoError(repo.Store(SnapshotRecord{Reason: "reset", Layout: domain.LayoutSingle, At: time.Now()}))

	last, err := repo.Last()
	req.NoError(err)
	req.NotEqual(uuid.Nil, last.ID)
	req.NotNil(last.Participants)
	req.Empty(last.Participants)
}

func TestSnapshotRepository_HistoryNewestFirstWithCursor(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db, discardLogger(), 2)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Given five records stored out of order
	for _, i := range []int{3, 0, 4, 1, 2} {
		req.NoError(repo.Store(record(base.Add(time.Duration(i)*time.Minute), domain.Layout(i%4+1), "Alice")))
	}

	// When paging through the history
	var layouts []domain.Layout
	var cursor *string
	for page := 0; page < 4; page++ {
		records, next, err := repo.History(cursor)
		req.NoError(err)
		if len(records) == 0 {
			break
		}
		req.LessOrEqual(len(records), 2)
		for _, r := range records {
			layouts = append(layouts, r.Layout)
		}
		cursor = next
	}

	// Then every record comes back once, newest first
	req.Equal([]domain.Layout{1, 4, 3, 2, 1}, layouts)
}

func TestSnapshotRepository_HistoryEmpty(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	repo := NewSnapshotRepository(db, discardLogger(), 0)

	records, _, err := repo.History(nil)

	require.NoError(t, err)
	require.Empty(t, records)
}
