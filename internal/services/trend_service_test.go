package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var trendNow = time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func newTrendFixture() (*MockTrendRepository, TrendService) {
	trend := &MockTrendRepository{}
	svc := NewTrendService(&testRepository{trend: trend}, newTestValidator(), discardLogger(), func() time.Time { return trendNow })
	return trend, svc
}

func expectTrend(trend *MockTrendRepository, metric repositories.TrendMetric, started, completed []repositories.MonthlyCount) {
	from, to := month(2025, time.November), month(2026, time.November)
	trend.On("StartedByMonth", mock.Anything, testStudent, metric, from, to).Return(started, nil)
	trend.On("CompletedByMonth", mock.Anything, testStudent, metric, from, to).Return(completed, nil)
}

func TestGetMonthlyTrend_CompletionJoinsByCalendarMonth(t *testing.T) {
	trend, svc := newTrendFixture()
	expectTrend(trend, repositories.MetricCourse,
		[]repositories.MonthlyCount{{Month: month(2026, time.March), Count: 1}},
		[]repositories.MonthlyCount{{Month: month(2026, time.May), Count: 1}},
	)

	stats, err := svc.GetMonthlyTrend(context.Background(), TrendRequest{StudentID: testStudent, Metric: repositories.MetricCourse})
	require.NoError(t, err)
	assert.Equal(t, []MonthStat{{Month: "2026-03", Started: 1, Completed: 0, CompletionRate: 0}}, stats)
	trend.AssertExpectations(t)
}

func TestGetMonthlyTrend_RatesAndOrdering(t *testing.T) {
	trend, svc := newTrendFixture()
	expectTrend(trend, repositories.MetricLessonChapter,
		[]repositories.MonthlyCount{
			{Month: month(2026, time.October), Count: 1},
			{Month: month(2026, time.January), Count: 3},
			{Month: month(2025, time.November), Count: 3},
			{Month: month(2025, time.October), Count: 4},
		},
		[]repositories.MonthlyCount{
			{Month: month(2025, time.November), Count: 2},
			{Month: month(2026, time.January), Count: 1},
			{Month: month(2026, time.October), Count: 2},
		},
	)

	stats, err := svc.GetMonthlyTrend(context.Background(), TrendRequest{StudentID: testStudent, Metric: repositories.MetricLessonChapter})
	require.NoError(t, err)
	assert.Equal(t, []MonthStat{
		{Month: "2025-11", Started: 3, Completed: 2, CompletionRate: 67},
		{Month: "2026-01", Started: 3, Completed: 1, CompletionRate: 33},
		{Month: "2026-10", Started: 1, Completed: 2, CompletionRate: 200},
	}, stats)
}

func TestGetMonthlyTrend_EmptyHistory(t *testing.T) {
	trend, svc := newTrendFixture()
	expectTrend(trend, repositories.MetricCourse, nil, []repositories.MonthlyCount{{Month: month(2026, time.June), Count: 3}})

	stats, err := svc.GetMonthlyTrend(context.Background(), TrendRequest{StudentID: testStudent, Metric: repositories.MetricCourse})
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.NotNil(t, stats)
}

func TestGetMonthlyTrend_WindowFollowsClock(t *testing.T) {
	trend := &MockTrendRepository{}
	now := trendNow
	svc := NewTrendService(&testRepository{trend: trend}, newTestValidator(), discardLogger(), func() time.Time { return now })

	trend.On("StartedByMonth", mock.Anything, testStudent, repositories.MetricCourse, month(2025, time.November), month(2026, time.November)).Return(nil, nil).Once()
	trend.On("CompletedByMonth", mock.Anything, testStudent, repositories.MetricCourse, month(2025, time.November), month(2026, time.November)).Return(nil, nil).Once()
	trend.On("StartedByMonth", mock.Anything, testStudent, repositories.MetricCourse, month(2025, time.December), month(2026, time.December)).Return(nil, nil).Once()
	trend.On("CompletedByMonth", mock.Anything, testStudent, repositories.MetricCourse, month(2025, time.December), month(2026, time.December)).Return(nil, nil).Once()

	req := TrendRequest{StudentID: testStudent, Metric: repositories.MetricCourse}
	_, err := svc.GetMonthlyTrend(context.Background(), req)
	require.NoError(t, err)

	now = time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.GetMonthlyTrend(context.Background(), req)
	require.NoError(t, err)

	trend.AssertExpectations(t)
}

func TestGetMonthlyTrend_InvalidArguments(t *testing.T) {
	_, svc := newTrendFixture()

	_, err := svc.GetMonthlyTrend(context.Background(), TrendRequest{StudentID: testStudent, Metric: "quiz"})
	assert.True(t, IsInvalidArgument(err))
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "metric", errs[0].Field)
	assert.Equal(t, "trend_metric", errs[0].Rule)

	_, err = svc.GetMonthlyTrend(context.Background(), TrendRequest{Metric: repositories.MetricCourse})
	assert.True(t, IsInvalidArgument(err))
}

func TestGetMonthlyTrend_StoreFailure(t *testing.T) {
	trend, svc := newTrendFixture()
	cause := errors.New("timeout")
	trend.On("StartedByMonth", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)
	trend.On("CompletedByMonth", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	_, err := svc.GetMonthlyTrend(context.Background(), TrendRequest{StudentID: testStudent, Metric: repositories.MetricCourse})
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
	assert.ErrorIs(t, err, cause)
}

func TestBuildMonthStats_StaysInsideWindow(t *testing.T) {
	window := timeutil.TrailingMonths(trendNow, TrendWindowMonths)
	started := []repositories.MonthlyCount{
		{Month: month(2025, time.October), Count: 2},
		{Month: month(2026, time.November), Count: 2},
		{Month: time.Date(2026, time.February, 14, 8, 0, 0, 0, time.UTC), Count: 1},
		{Month: month(2026, time.February), Count: 1},
	}

	stats := buildMonthStats(window, started, nil)
	require.Len(t, stats, 1)
	assert.Equal(t, MonthStat{Month: "2026-02", Started: 2, Completed: 0, CompletionRate: 0}, stats[0])
}
