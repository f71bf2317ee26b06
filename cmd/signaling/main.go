package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/infrastructure/mqtt"
	"share-lab/infrastructure/web"
	"share-lab/internal"
	"share-lab/runtime/workers"
	"share-lab/signaling"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK     = 0
	exitConfig = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Signaling terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config internal.SignalingConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetryChan := make(chan event.Event, config.BufferSize)
	router := mqtt.NewRouter(logger, telemetryChan)
	client := mqtt.NewClient(logger, config.MQTT(), router)
	publisher := mqtt.NewPublisher(client)

	hub := signaling.NewHub(logger, publisher)
	router.On(mqtt.TopicParticipantRequest, hub.AnswerRosterRequest(publisher))

	server := web.NewServer(logger, config.Address(), signaling.NewServer(logger, hub).Router(), 5*time.Second)
	sup := workers.NewSupervisor(logger, telemetryChan, 2*time.Second)
	sup.Add(
		server,
		workers.NewTelemetryWorker(logger, telemetryChan, []event.Handler{
			event.NewMessageDroppedHandler(logger, event.NewCounter()),
		}),
		workers.NewHeartbeatWorker(logger, uuid.NewString(), domain.SIGNALING, publisher, nil, 10*time.Second),
	)

	connectCtx, cancelConnect := context.WithTimeout(ctx, config.ConnectTimeout)
	if err := client.Connect(connectCtx); err != nil {
		logger.Warn("MQTT broker not reachable yet", "broker", config.MQTTBrokerURL, "err", err)
	}
	cancelConnect()
	defer client.Disconnect()

	logger.Info("Signaling hub started", "address", config.Address())
	sup.Run(ctx)
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}
