package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	natsadapter "github.com/aritzberg/wildsight/internal/adapters/nats"
	"github.com/aritzberg/wildsight/internal/adapters/postgres"
	"github.com/aritzberg/wildsight/internal/core/usecases"
	"github.com/aritzberg/wildsight/internal/pkg/config"
	"github.com/aritzberg/wildsight/internal/pkg/logging"
	"github.com/aritzberg/wildsight/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load("wildsight-sweeper")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, purge summaries will not be published", "error", err)
	} else {
		defer pub.Close()
	}

	policy := usecases.RetentionPolicy{
		SightingAge: time.Duration(cfg.Retention.SightingAge) * time.Hour,
		FortAge:     time.Duration(cfg.Retention.FortAge) * time.Hour,
		DenAge:      time.Duration(cfg.Retention.DenAge) * time.Hour,
		WeatherAge:  time.Duration(cfg.Retention.WeatherAge) * time.Hour,
	}

	var svc *usecases.RetentionService
	if pub != nil {
		svc = usecases.NewRetentionService(postgres.NewRetentionRepo(db), pub, policy)
	} else {
		svc = usecases.NewRetentionService(postgres.NewRetentionRepo(db), nil, policy)
	}

	clock := clockwork.NewRealClock()
	regular := clock.NewTicker(time.Duration(cfg.Retention.RegularInterval) * time.Second)
	defer regular.Stop()
	full := clock.NewTicker(time.Duration(cfg.Retention.FullInterval) * time.Second)
	defer full.Stop()

	slog.Info("sweeper started",
		"regular_interval_s", cfg.Retention.RegularInterval,
		"full_interval_s", cfg.Retention.FullInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-regular.Chan():
			if err := svc.RegularPass(ctx); err != nil {
				metrics.RetentionPassErrors.WithLabelValues("regular").Inc()
				slog.Error("regular retention pass failed", "error", err)
			}

		case <-full.Chan():
			summary, err := svc.FullPass(ctx)
			if err != nil {
				metrics.RetentionPassErrors.WithLabelValues("full").Inc()
				slog.Error("full retention pass failed", "error", err)
				continue
			}
			total := int64(0)
			for table, n := range summary.Deleted {
				metrics.RetentionDeleted.WithLabelValues(table).Add(float64(n))
				total += n
			}
			slog.Info("full retention pass complete", "rows_deleted", total)

		case sig := <-quit:
			slog.Info("shutdown signal received", "signal", sig.String())
			return
		}
	}
}
