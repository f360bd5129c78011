package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studycafe/internal/api"
	"studycafe/internal/config"
	"studycafe/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	server, err := api.NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize server", "error", err)
	}

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Get().Error("Shutdown error", "error", err)
	}
}
