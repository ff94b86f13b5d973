package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/cache"
)

const creatorStatsKeyPrefix = "creator-stats:"

type cachedCreatorStatsService struct {
	next   CreatorStatsService
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedCreatorStatsService serves bundles from cache for ttl. A zero ttl
// or a nil cache returns next unchanged. Cache failures fall through to next.
func NewCachedCreatorStatsService(next CreatorStatsService, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) CreatorStatsService {
	if cacheService == nil || ttl <= 0 {
		return next
	}
	return &cachedCreatorStatsService{
		next:   next,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger.With("component", "creator_stats_cache"),
	}
}

func creatorStatsKey(req CreatorStatsRequest) string {
	scope := "all"
	if req.AuthorID != nil {
		scope = "author:" + strings.TrimSpace(*req.AuthorID)
	}
	language := strings.ToLower(req.Language)
	if language == "" {
		language = "base"
	}
	return fmt.Sprintf("%s%s:%s", creatorStatsKeyPrefix, scope, language)
}

func (s *cachedCreatorStatsService) GetCreatorStats(ctx context.Context, req CreatorStatsRequest) (*CreatorStatsBundle, error) {
	key := creatorStatsKey(req)

	var cached CreatorStatsBundle
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.WarnContext(ctx, "creator stats cache read failed", "key", key, "error", err)
	}

	bundle, err := s.next.GetCreatorStats(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, bundle, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "creator stats cache write failed", "key", key, "error", err)
	}
	return bundle, nil
}

// InvalidateCreatorStats drops every cached creator stats bundle. The counter
// projector calls it after applying an event.
func InvalidateCreatorStats(ctx context.Context, cacheService cache.CacheService) error {
	if cacheService == nil {
		return nil
	}
	return cacheService.DeletePattern(ctx, creatorStatsKeyPrefix+"*")
}
