package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"booking-engine/internal/api"
	"booking-engine/internal/api/handlers"
	"booking-engine/internal/config"
	"booking-engine/internal/engine"
	"booking-engine/internal/jobs"
	"booking-engine/internal/logs"
	"booking-engine/internal/server"
	"booking-engine/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logs.New(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := storage.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	availability := storage.NewAvailabilityRepo(pool)
	bookings := storage.NewBookingRepo(pool)
	settings := storage.NewSettingsRepo(pool)
	sessionTypes := storage.NewSessionTypeRepo(pool)

	publisher := engine.LogPublisher{Logger: logger.With(slog.String("component", "events"))}
	generator := engine.NewGenerator(availability, bookings, nil)
	coordinator := engine.NewCoordinator(settings, sessionTypes, bookings, generator, publisher, logger)

	sweeper := jobs.NewSweeper(bookings, publisher, logger.With(slog.String("component", "sweeper")),
		cfg.Jobs.PendingTTL(), cfg.Jobs.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("start sweeper: %v", err)
	}
	defer sweeper.Stop()

	h := handlers.New(coordinator, availability, bookings, settings, sessionTypes, logger)
	router := api.NewRouter(cfg, h, logger)

	if err := server.Run(cfg, router, logger); err != nil {
		log.Fatalf("server: %v", err)
	}
}
