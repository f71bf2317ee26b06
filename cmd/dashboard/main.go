package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"share-lab/auth"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/infrastructure/mqtt"
	"share-lab/infrastructure/storage"
	"share-lab/infrastructure/web"
	"share-lab/internal"
	"share-lab/observability"
	"share-lab/placement"
	"share-lab/projection"
	"share-lab/runtime"
	"share-lab/runtime/workers"
	"share-lab/services"
	"share-lab/sink"
	"share-lab/voice"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dashboard terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a shutdown signal. Returning
// instead of exiting lets the deferred cleanups (badger, mqtt) run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	verifier, err := auth.NewPasswordVerifier(config.AdminPassword)
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, SnapshotMapper)
	}

	// 3. MQTT channel and the board
	telemetryChan := make(chan event.Event, config.BufferSize)
	router := mqtt.NewRouter(logger, telemetryChan)
	client := mqtt.NewClient(logger, config.MQTT(), router).
		OnConnectRequests(mqtt.TopicParticipantRequest, mqtt.TopicScreenRequest)
	publisher := mqtt.NewPublisher(client)
	board := placement.NewBoard(logger, publisher)

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(logger, telemetryChan, config.RestartInterval)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(logger, sup, registry, board, config.BufferSize, config.SinkTimeout)

	router.
		On(mqtt.TopicParticipantUpdate, mqtt.RosterHandler(orchestrator)).
		On(mqtt.TopicParticipantResponse, mqtt.RosterHandler(orchestrator)).
		On(mqtt.TopicParticipantLeft, mqtt.LeftHandler(orchestrator)).
		On(mqtt.TopicScreenResponse, mqtt.ScreenHandler(orchestrator)).
		On(mqtt.TopicStatsUpdate, mqtt.StatsHandler(orchestrator, time.Now))

	// 5. Sinks: dashboard view, stats, history and the voice trigger
	snapshotRepository := storage.NewSnapshotRepository(db, logger, config.HistoryLimit)
	dashboard := projection.NewDashboard(config.VoiceLogSize)
	statsBoard := observability.NewStatsBoard(logger, config.StatsHistory)
	directory, err := voice.NewDirectory(logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("name directory: %w", err)
	}
	defer func() { _ = directory.Close() }()
	var transcriber contract.Transcriber
	if config.SpeechAPIKey == "" {
		logger.Warn("SPEECH_API_KEY not set, audio voice commands are disabled")
	} else {
		speech, err := voice.NewSpeechClient(ctx, logger, voice.SpeechConfig{
			Endpoint: config.SpeechEndpoint,
			APIKey:   config.SpeechAPIKey,
			Language: config.SpeechLanguage,
			Timeout:  config.SpeechTimeout,
		})
		if err != nil {
			return exitRuntime, err
		}
		defer func() { _ = speech.Close() }()
		transcriber = speech
	}
	trigger := voice.NewTrigger(logger, orchestrator, orchestrator, transcriber, directory, config.VoiceDebounce)
	orchestrator.RegisterSinks(dashboard, statsBoard, sink.NewHistorySink(snapshotRepository, logger), trigger)

	// 6. HTTP API
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	handler := web.NewHandler(logger,
		services.NewAuthService(verifier, issuer),
		services.NewPlacementService(orchestrator, snapshotRepository),
		dashboard, statsBoard, trigger, orchestrator,
	).WithCommandTimeout(config.CommandTimeout)
	server := web.NewServer(logger, config.Address(), web.NewRouter(logger, handler, issuer), 5*time.Second)

	// 7. Technical workers
	counter := event.NewCounter()
	orchestrator.AddWorkers(
		server,
		workers.NewTelemetryWorker(logger, telemetryChan, []event.Handler{
			event.NewWorkerRestartedAfterPanicHandler(logger, counter),
			event.NewChannelCapacityHandler(logger, config.LowCapacityThreshold),
			event.NewMessageDroppedHandler(logger, counter),
		}),
		workers.NewChannelCapacityWorker(logger, orchestrator.Channels(), telemetryChan, config.MetricInterval),
		workers.NewHeartbeatWorker(logger, uuid.NewString(), domain.DASHBOARD, publisher, dashboard, config.HeartbeatInterval),
	)

	// 8. Start the Engine, then the broker connection
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	connectCtx, cancelConnect := context.WithTimeout(ctx, config.MQTTConnectTimeout)
	if err := client.Connect(connectCtx); err != nil {
		// paho keeps retrying in the background, the board simply stays unsynced
		logger.Warn("MQTT broker not reachable yet", "broker", config.MQTTBrokerURL, "err", err)
	}
	cancelConnect()
	defer client.Disconnect()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	logger.Info("Shutting down gracefully...")
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLogger(nil)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithBypassLockGuard(true)
	}
	return options
}

// SnapshotMapper renders a placement record in the badger inspector.
func SnapshotMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	var record storage.SnapshotRecord
	if err := json.Unmarshal(val, &record); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}

	names := make([]string, 0, len(record.Participants))
	for _, p := range record.Participants {
		names = append(names, p.Name)
	}
	row.Type = strings.ToUpper(record.Reason)
	row.Timestamp = record.At.Format("15:04:05")
	row.EntityID = record.ID.String()[:8]
	row.Namespace = fmt.Sprintf("layout %d", record.Layout)
	row.Detail = strings.Join(names, ", ")
	row.Scores = fmt.Sprintf("published=%t", record.Published)
	return row
}
