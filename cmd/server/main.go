package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/cache"
	"github.com/SAP-F-2025/progress-service/internal/config"
	"github.com/SAP-F-2025/progress-service/internal/handlers"
	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"github.com/SAP-F-2025/progress-service/pkg"
	"github.com/gin-gonic/gin"
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

	logger := utils.NewLogger(os.Stdout, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	slogger := utils.ToSlogLogger(logger).With("service", "progress-service")

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	var cacheService cache.CacheService
	if cfg.CreatorStatsCacheTTL > 0 {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			slogger.Warn("Redis unavailable, creator stats caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheService = cache.NewRedisCache(redisClient, "progress:", slogger)
		}
	}

	serviceManager := services.NewServiceManager(postgres.NewRepository(db), slogger, validator.New(), services.ServiceOptions{
		DefaultLanguage:     cfg.DefaultLanguage,
		SpeculativeResolver: cfg.ResolverSpeculative,
		CreatorStatsTTL:     cfg.CreatorStatsCacheTTL,
		Cache:               cacheService,
	})

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestID(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	handlers.NewHandlerManager(serviceManager, logger, sqlDB).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slogger.Info("HTTP server listening", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slogger.Info("Shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slogger.Info("Shutdown completed")
	return nil
}
