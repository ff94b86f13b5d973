package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary       = "Summary"
	SheetTopCourses    = "Top Courses"
	SheetStudentGrowth = "Student Growth"
)

// ExportService renders dashboards as xlsx workbooks.
type ExportService interface {
	ExportCreatorStats(ctx context.Context, req CreatorStatsRequest) ([]byte, error)
}

type exportService struct {
	creatorStats CreatorStatsService
	logger       *ServiceLogger
}

func NewExportService(creatorStats CreatorStatsService, logger *slog.Logger) ExportService {
	return &exportService{
		creatorStats: creatorStats,
		logger: NewServiceLogger(logger, LogConfig{
			Service:   "progress-service",
			Component: "export",
		}),
	}
}

func (s *exportService) ExportCreatorStats(ctx context.Context, req CreatorStatsRequest) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_creator_stats", CreatorStatsRequest{AuthorID: normalizeAuthorID(req.AuthorID)}.subject())
	defer func() { op.LogResult(err, slog.Int("bytes", len(data))) }()

	bundle, err := s.creatorStats.GetCreatorStats(ctx, req)
	if err != nil {
		return nil, err
	}
	return RenderCreatorStatsWorkbook(bundle)
}

// RenderCreatorStatsWorkbook writes the bundle into Summary, Top Courses and
// Student Growth sheets.
func RenderCreatorStatsWorkbook(bundle *CreatorStatsBundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	scope := "platform"
	if bundle.AuthorID != nil {
		scope = *bundle.AuthorID
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Scope", scope},
		{"Total course purchases", bundle.CompletionSummary.TotalCourses},
		{"Course completions", bundle.CompletionSummary.TotalCoursesCompletion},
		{"Completion %", bundle.CompletionSummary.CompletionPercentage},
		{"Purchased after freemium", bundle.FreemiumConversion.PurchasedAfterFreemium},
		{"Remained on freemium", bundle.FreemiumConversion.RemainedOnFreemium},
		{"Conversion %", bundle.FreemiumConversion.ConversionPercentage},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	topCourses := [][]interface{}{{"Rank", "Course ID", "Name", "Free purchases", "Paid purchases", "Total purchases"}}
	for i, c := range bundle.TopCourses {
		topCourses = append(topCourses, []interface{}{i + 1, c.CourseID, c.Name, c.FreePurchased, c.PaidPurchased, c.Purchases})
	}
	if err := newSheet(f, SheetTopCourses, topCourses); err != nil {
		return nil, err
	}

	growth := [][]interface{}{{"Year", "Month", "New students"}}
	for _, b := range bundle.StudentGrowth {
		growth = append(growth, []interface{}{b.Year, b.Month, b.NewStudents})
	}
	if err := newSheet(f, SheetStudentGrowth, growth); err != nil {
		return nil, err
	}

	// Save to buffer
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
