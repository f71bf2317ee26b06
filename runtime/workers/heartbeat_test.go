package workers

import (
	"context"
	"log/slog"
	"os"
	"share-lab/domain"
	"share-lab/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHeartbeatWorker_PublishesSelfHealth(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockHealthPublisher(ctrl)
	state := mocks.NewMockStateProvider(ctrl)
	state.EXPECT().CurrentState().Return(domain.BoardState{
		Layout: domain.LayoutDual,
		Placed: []domain.Participant{{ID: "1", Name: "Alice"}},
	}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	published := make(chan domain.NodeHealth, 1)
	publisher.EXPECT().PublishHealth(gomock.Any()).DoAndReturn(func(h domain.NodeHealth) error {
		select {
		case published <- h:
		default:
		}
		return nil
	}).MinTimes(1)

	// Given a heartbeat worker ticking quickly
	worker := NewHeartbeatWorker(log, "dashboard-1", domain.DASHBOARD, publisher, state, 10*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// When the first tick fires
	var health domain.NodeHealth
	select {
	case health = <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat published")
	}
	cancel()

	// Then it describes this process and the board occupancy
	req.NoError(<-done)
	req.Equal("dashboard-1", health.ID)
	req.Equal(domain.DASHBOARD, health.Type)
	req.Equal(int64(os.Getpid()), health.PID)
	req.NotEqual(domain.PidStatus(""), health.PIDStatus)
	req.Equal(1, health.Placed)
	req.Equal(domain.LayoutDual, health.Layout)
	req.False(health.At.IsZero())
}
