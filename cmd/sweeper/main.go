package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studycafe/cmd/sweeper/jobs"
	"studycafe/internal/clock"
	"studycafe/internal/config"
	"studycafe/internal/database"
	"studycafe/internal/logger"
	"studycafe/internal/messaging"
	"studycafe/internal/repository"
	"studycafe/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	natsCfg := cfg.NATS
	natsCfg.ClientID = natsCfg.ClientID + "-sweeper"

	var publisher service.EventPublisher
	nats, err := messaging.NewNATSClient(natsCfg)
	if err != nil {
		logger.Get().Warn("NATS unavailable, sweeping without events", "error", err)
	} else {
		publisher = nats
		defer nats.Close()
	}

	repos := repository.NewRepositories(db)
	reservations := service.NewReservationService(repos.Reservations, nil, publisher, clock.System())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	jobs.NewReservationExpirationJob(reservations, cfg.SweepInterval).Run(ctx)
}
