package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/di"
	"booklog-backend/interfaces/http/server"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	if err := server.Run(ctx, container); err != nil {
		container.Logger.Error("Server stopped with error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
	log.Println("Server stopped")
}
