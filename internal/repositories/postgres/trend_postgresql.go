package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/pkg/timeutil"
	"gorm.io/gorm"
)

type TrendPostgreSQL struct {
	db *gorm.DB
}

func NewTrendPostgreSQL(db *gorm.DB) repositories.TrendRepository {
	return &TrendPostgreSQL{db: db}
}

// trackingSource names the tracking table and the tracked entity column for a metric.
type trackingSource struct {
	table     string
	entityCol string
}

func sourceFor(metric repositories.TrendMetric) (trackingSource, error) {
	switch metric {
	case repositories.MetricCourse:
		return trackingSource{table: "student_courses", entityCol: "course_id"}, nil
	case repositories.MetricLessonChapter:
		return trackingSource{table: "student_chapter_progress", entityCol: "chapter_id"}, nil
	default:
		return trackingSource{}, fmt.Errorf("unsupported trend metric %q", metric)
	}
}

type trackedEvent struct {
	EntityID uint
	At       time.Time
}

func (t *TrendPostgreSQL) trackedEvents(ctx context.Context, src trackingSource, timeCol, studentID string, from, to time.Time) ([]trackedEvent, error) {
	var events []trackedEvent
	err := t.db.WithContext(ctx).
		Table(src.table).
		Select(fmt.Sprintf("%s AS entity_id, %s AS at", src.entityCol, timeCol)).
		Where("student_id = ?", studentID).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s >= ? AND %s < ?", timeCol, timeCol, timeCol), from, to).
		Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (t *TrendPostgreSQL) StartedByMonth(ctx context.Context, studentID string, metric repositories.TrendMetric, from, to time.Time) ([]repositories.MonthlyCount, error) {
	src, err := sourceFor(metric)
	if err != nil {
		return nil, err
	}

	events, err := t.trackedEvents(ctx, src, "created_at", studentID, from, to)
	if err != nil {
		return nil, err
	}

	// Started counts distinct entities per month.
	seen := make(map[time.Time]map[uint]struct{})
	for _, e := range events {
		month := timeutil.StartOfMonth(e.At)
		if seen[month] == nil {
			seen[month] = make(map[uint]struct{})
		}
		seen[month][e.EntityID] = struct{}{}
	}

	counts := make(map[time.Time]int, len(seen))
	for month, entities := range seen {
		counts[month] = len(entities)
	}
	return sortedMonthlyCounts(counts), nil
}

func (t *TrendPostgreSQL) CompletedByMonth(ctx context.Context, studentID string, metric repositories.TrendMetric, from, to time.Time) ([]repositories.MonthlyCount, error) {
	src, err := sourceFor(metric)
	if err != nil {
		return nil, err
	}

	events, err := t.trackedEvents(ctx, src, "completed_at", studentID, from, to)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Time]int)
	for _, e := range events {
		counts[timeutil.StartOfMonth(e.At)]++
	}
	return sortedMonthlyCounts(counts), nil
}

func sortedMonthlyCounts(counts map[time.Time]int) []repositories.MonthlyCount {
	result := make([]repositories.MonthlyCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, repositories.MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})
	return result
}
