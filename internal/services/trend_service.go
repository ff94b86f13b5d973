package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"github.com/SAP-F-2025/progress-service/pkg/timeutil"
	"golang.org/x/sync/errgroup"
)

// TrendWindowMonths is the length of the rolling trend window, current month included.
const TrendWindowMonths = 12

type TrendService interface {
	// GetMonthlyTrend returns one row per month with at least one start,
	// ascending, inside the trailing window.
	GetMonthlyTrend(ctx context.Context, req TrendRequest) ([]MonthStat, error)
}

type TrendRequest struct {
	StudentID string                   `json:"student_id" validate:"required,not_blank,max=255"`
	Metric    repositories.TrendMetric `json:"metric" validate:"required,trend_metric"`
}

type MonthStat struct {
	Month          string `json:"month"`
	Started        int    `json:"started"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

type trendService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

// NewTrendService builds the trend aggregator. now is read on every call; nil means time.Now.
func NewTrendService(repo repositories.Repository, validator *validator.Validator, logger *slog.Logger, now func() time.Time) TrendService {
	if now == nil {
		now = time.Now
	}
	return &trendService{
		repo:      repo,
		validator: validator,
		logger: NewServiceLogger(logger, LogConfig{
			Service:   "progress-service",
			Component: "trend",
		}),
		now: now,
	}
}

func (s *trendService) GetMonthlyTrend(ctx context.Context, req TrendRequest) (stats []MonthStat, err error) {
	op := s.logger.WithOperation(ctx, "get_monthly_trend", req.StudentID)
	defer func() {
		op.LogResult(err, slog.String("metric", string(req.Metric)), slog.Int("months", len(stats)))
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	window := timeutil.TrailingMonths(s.now(), TrendWindowMonths)

	var started, completed []repositories.MonthlyCount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		started, err = s.repo.Trend().StartedByMonth(gctx, req.StudentID, req.Metric, window.From, window.To)
		return storeError("started_by_month", err)
	})
	g.Go(func() error {
		var err error
		completed, err = s.repo.Trend().CompletedByMonth(gctx, req.StudentID, req.Metric, window.From, window.To)
		return storeError("completed_by_month", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildMonthStats(window, started, completed), nil
}

// buildMonthStats joins completions onto start rows by calendar month.
// Months without a start are dropped even if they have completions.
func buildMonthStats(window timeutil.Window, started, completed []repositories.MonthlyCount) []MonthStat {
	startedByMonth := bucketByMonth(window, started)
	completedByMonth := bucketByMonth(window, completed)

	months := make([]time.Time, 0, len(startedByMonth))
	for month, count := range startedByMonth {
		if count > 0 {
			months = append(months, month)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	stats := make([]MonthStat, 0, len(months))
	for _, month := range months {
		startedCount := startedByMonth[month]
		completedCount := completedByMonth[month]
		stats = append(stats, MonthStat{
			Month:          timeutil.MonthKey(month),
			Started:        startedCount,
			Completed:      completedCount,
			CompletionRate: completionRate(int64(completedCount), int64(startedCount)),
		})
	}
	return stats
}

func bucketByMonth(window timeutil.Window, counts []repositories.MonthlyCount) map[time.Time]int {
	buckets := make(map[time.Time]int, len(counts))
	for _, c := range counts {
		month := timeutil.StartOfMonth(c.Month)
		if !window.Contains(month) {
			continue
		}
		buckets[month] += c.Count
	}
	return buckets
}
