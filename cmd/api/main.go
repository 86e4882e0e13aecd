package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aritzberg/wildsight/internal/adapters/http"
	natsadapter "github.com/aritzberg/wildsight/internal/adapters/nats"
	"github.com/aritzberg/wildsight/internal/adapters/postgres"
	"github.com/aritzberg/wildsight/internal/adapters/valkey"
	"github.com/aritzberg/wildsight/internal/core/usecases"
	"github.com/aritzberg/wildsight/internal/pkg/config"
	"github.com/aritzberg/wildsight/internal/pkg/logging"
	"github.com/aritzberg/wildsight/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("wildsight-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	db.StartPoolMetrics(ctx, 15*time.Second)

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	}

	// Repos
	sightingRepo := postgres.NewSightingRepo(db)
	landmarkRepo := postgres.NewLandmarkRepo(db)
	outpostRepo := postgres.NewOutpostRepo(db)
	weatherRepo := postgres.NewWeatherRepo(db)
	denRepo := postgres.NewDenRepo(db)
	scanRepo := postgres.NewScanCellRepo(db)

	// Use cases
	sightingSvc := usecases.NewSightingService(sightingRepo)
	landmarkSvc := usecases.NewLandmarkService(landmarkRepo)
	outpostSvc := usecases.NewOutpostService(outpostRepo)
	weatherSvc := usecases.NewWeatherService(weatherRepo)
	denSvc := usecases.NewDenService(denRepo)
	scanSvc := usecases.NewScanService(scanRepo)
	var statsSvc *usecases.StatsService
	if cache != nil {
		statsSvc = usecases.NewStatsService(sightingRepo, cache)
	} else {
		statsSvc = usecases.NewStatsService(sightingRepo, nil)
	}

	deps := &http.Dependencies{
		Sightings: sightingSvc,
		Landmarks: landmarkSvc,
		Outposts:  outpostSvc,
		Weather:   weatherSvc,
		Dens:      denSvc,
		Scans:     scanSvc,
		Stats:     statsSvc,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Wildsight API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
