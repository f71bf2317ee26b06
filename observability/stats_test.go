package observability

import (
	"context"
	"io"
	"log/slog"
	"share-lab/domain"
	"share-lab/domain/event"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStatsBoard(size int) *StatsBoard {
	return NewStatsBoard(slog.New(slog.NewTextHandler(io.Discard, nil)), size)
}

func stats(name string, fps float64) event.StatsReceived {
	return event.StatsReceived{Stats: domain.StreamStats{Name: name, FPS: fps}}
}

func TestStatsBoard_HistoryIsBounded(t *testing.T) {
	req := require.New(t)
	board := newTestStatsBoard(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		req.NoError(board.Consume(ctx, stats("Alice", float64(i))))
	}

	entry, ok := board.Query("Alice")
	req.True(ok)
	req.Equal(5.0, entry.Latest.FPS)
	req.Len(entry.History, 3)
	req.Equal(3.0, entry.History[0].FPS)

	_, ok = board.Query("Bob")
	req.False(ok)
}

func TestStatsBoard_PlacedFilterAndUnplace(t *testing.T) {
	req := require.New(t)
	board := newTestStatsBoard(0)
	ctx := context.Background()
	alice := domain.Participant{ID: "a1", Name: "Alice"}

	// Given stats for Alice and Bob with only Alice on screen
	req.NoError(board.Consume(ctx, stats("Bob", 30)))
	req.NoError(board.Consume(ctx, stats("Alice", 25)))
	req.NoError(board.Consume(ctx, event.PlacementChanged{State: domain.BoardState{Placed: []domain.Participant{alice}}}))

	// Then the placed filter keeps Alice only
	all := board.All(false)
	req.Len(all, 2)
	req.Equal("Alice", all[0].Name)
	req.True(all[0].Placed)
	req.False(all[1].Placed)

	placed := board.All(true)
	req.Len(placed, 1)
	req.Equal("Alice", placed[0].Name)

	// When Alice leaves the video area her samples are dropped
	req.NoError(board.Consume(ctx, event.ParticipantUnplaced{Participant: alice}))
	_, ok := board.Query("Alice")
	req.False(ok)
	req.Empty(board.All(true))

	// And a reset clears everything
	req.NoError(board.Consume(ctx, event.BoardReset{}))
	req.Empty(board.All(false))
}

func TestStatsBoard_QueryReturnsCopy(t *testing.T) {
	board := newTestStatsBoard(0)
	require.NoError(t, board.Consume(context.Background(), stats("Alice", 10)))

	entry, _ := board.Query("Alice")
	entry.History[0].FPS = 99

	again, _ := board.Query("Alice")
	require.Equal(t, 10.0, again.History[0].FPS)
}
