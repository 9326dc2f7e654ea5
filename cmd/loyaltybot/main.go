package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"loyaltybot/app"
	"loyaltybot/core/config"
	"loyaltybot/core/logger"
)

const defaultConfigPath = "configs/config.yml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.L.Error("startup failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.L.Error("bot stopped with error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger.L.Info("bot stopped")
}
