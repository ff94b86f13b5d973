package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/progress-service/internal/cache"
	"github.com/SAP-F-2025/progress-service/internal/config"
	"github.com/SAP-F-2025/progress-service/internal/counters"
	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/SAP-F-2025/progress-service/pkg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slogger := utils.ToSlogLogger(utils.NewLogger(os.Stdout, cfg.IsProduction())).With("service", "progress-projector")

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	transport, err := cfg.Events.CreateTransport(slogger, true)
	if err != nil {
		return err
	}
	defer transport.Publisher.Close()
	if transport.Subscriber == nil {
		return fmt.Errorf("event transport %q has no subscriber", cfg.Events.Publisher)
	}
	defer transport.Subscriber.Close()

	projector := counters.NewProjector(transport.Subscriber, postgres.NewCounterPostgreSQL(db), cfg.Events.CounterTopic, slogger)

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		slogger.Warn("Redis unavailable, cached creator stats will expire by TTL only", "error", err)
	} else {
		defer redisClient.Close()
		cacheService := cache.NewRedisCache(redisClient, "progress:", slogger)
		projector.OnApplied(func(ctx context.Context, _ *events.CounterEvent) error {
			return services.InvalidateCreatorStats(ctx, cacheService)
		})
	}

	return projector.Run(ctx)
}
