package workers

import (
	"context"
	"log/slog"
	"os"
	"share-lab/contract"
	"share-lab/domain"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker publishes the health of the current process (CPU, RSS,
// status) along with the board occupancy on every tick.
type HeartbeatWorker struct {
	log       *slog.Logger
	nodeID    string
	nodeType  domain.NodeType
	publisher contract.HealthPublisher
	state     contract.StateProvider
	interval  time.Duration
}

func NewHeartbeatWorker(
	log *slog.Logger,
	nodeID string,
	nodeType domain.NodeType,
	publisher contract.HealthPublisher,
	state contract.StateProvider,
	interval time.Duration,
) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:       log,
		nodeID:    nodeID,
		nodeType:  nodeType,
		publisher: publisher,
		state:     state,
		interval:  interval,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "node", w.nodeID, "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			health, err := w.collect(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			if err := w.publisher.PublishHealth(health); err != nil {
				w.log.Warn("Heartbeat not delivered", "err", err)
			}
		}
	}
}

func (w *HeartbeatWorker) collect(p *process.Process) (domain.NodeHealth, error) {
	rss, cpu, status, err := getSelfStats(p)
	if err != nil {
		return domain.NodeHealth{}, err
	}
	health := domain.NodeHealth{
		ID:        w.nodeID,
		Type:      w.nodeType,
		PID:       int64(p.Pid),
		PIDStatus: domain.ToStatus(status),
		CPU:       cpu,
		RAM:       rss,
		At:        time.Now().UTC(),
	}
	if w.state != nil {
		state := w.state.CurrentState()
		health.Placed = len(state.Placed)
		health.Layout = state.Layout
	}
	return health, nil
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
