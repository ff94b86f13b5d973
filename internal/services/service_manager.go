package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/cache"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
)

// ServiceManager owns the engine services handed to the HTTP layer.
type ServiceManager struct {
	NextLesson   NextLessonService
	Trend        TrendService
	CreatorStats CreatorStatsService
	QuizStats    QuizStatsService
	Export       ExportService
}

type ServiceOptions struct {
	DefaultLanguage     string
	SpeculativeResolver bool
	CreatorStatsTTL     time.Duration
	// Cache is optional; nil disables creator stats caching.
	Cache cache.CacheService
	// Now is optional; nil means time.Now.
	Now func() time.Time
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, opts ServiceOptions) *ServiceManager {
	localizer := NewFallbackLocalizer(opts.DefaultLanguage)

	creatorStats := NewCachedCreatorStatsService(
		NewCreatorStatsService(repo, localizer, validator, logger),
		opts.Cache,
		opts.CreatorStatsTTL,
		logger,
	)

	return &ServiceManager{
		NextLesson:   NewNextLessonService(repo, localizer, validator, logger, opts.SpeculativeResolver),
		Trend:        NewTrendService(repo, validator, logger, opts.Now),
		CreatorStats: creatorStats,
		QuizStats:    NewQuizStatsService(repo, validator, logger),
		Export:       NewExportService(creatorStats, logger),
	}
}
