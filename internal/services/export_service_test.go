package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCreatorStats(t *testing.T) {
	creator := &MockCreatorStatsService{}
	svc := NewExportService(creator, discardLogger())

	req := CreatorStatsRequest{AuthorID: strPtr("author-1")}
	creator.On("GetCreatorStats", mock.Anything, req).Return(&CreatorStatsBundle{
		AuthorID: strPtr("author-1"),
		TopCourses: []TopCourse{
			{CourseID: 9, Name: "Go", FreePurchased: 10, PaidPurchased: 2, Purchases: 12},
			{CourseID: 1, Name: "Rust", FreePurchased: 2, PaidPurchased: 3, Purchases: 5},
		},
		CompletionSummary:  CompletionSummary{TotalCoursesCompletion: 1, TotalCourses: 6, CompletionPercentage: 17},
		FreemiumConversion: FreemiumConversion{PurchasedAfterFreemium: 5, RemainedOnFreemium: -2, ConversionPercentage: 167},
		StudentGrowth:      []StudentGrowthBucket{{Year: 2026, Month: 1, NewStudents: 2}},
	}, nil)

	data, err := svc.ExportCreatorStats(context.Background(), req)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTopCourses, SheetStudentGrowth}, f.GetSheetList())

	scope, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "author-1", scope)

	completion, err := f.GetCellValue(SheetSummary, "B5")
	require.NoError(t, err)
	assert.Equal(t, "17", completion)

	rows, err := f.GetRows(SheetTopCourses)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "9", "Go", "10", "2", "12"}, rows[1])
	assert.Equal(t, "Rust", rows[2][2])

	growth, err := f.GetRows(SheetStudentGrowth)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Year", "Month", "New students"}, {"2026", "1", "2"}}, growth)
}

func TestExportCreatorStats_PropagatesErrors(t *testing.T) {
	creator := &MockCreatorStatsService{}
	svc := NewExportService(creator, discardLogger())

	cause := &StoreError{Op: "summary_totals", Err: errors.New("down")}
	creator.On("GetCreatorStats", mock.Anything, CreatorStatsRequest{}).Return(nil, cause)

	data, err := svc.ExportCreatorStats(context.Background(), CreatorStatsRequest{})
	assert.Nil(t, data)
	assert.True(t, IsStoreUnavailable(err))
}
