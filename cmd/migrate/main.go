package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/app/api"
	"github.com/Apurer/go-gin-brewery-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-brewery-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; nothing to migrate")
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	logger.Info("schema migrated")
}
