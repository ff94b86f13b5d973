package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"gorm.io/gorm"
)

type CourseStatsPostgreSQL struct {
	db *gorm.DB
}

func NewCourseStatsPostgreSQL(db *gorm.DB) repositories.CourseStatsRepository {
	return &CourseStatsPostgreSQL{db: db}
}

func applyAuthorScope(query *gorm.DB, filters repositories.CourseStatsFilters) *gorm.DB {
	if filters.AuthorID != nil {
		query = query.Where("c.author_id = ?", *filters.AuthorID)
	}
	return query
}

func (s *CourseStatsPostgreSQL) summaryQuery(ctx context.Context, filters repositories.CourseStatsFilters) *gorm.DB {
	query := s.db.WithContext(ctx).
		Table("course_summary_stats AS s").
		Joins("JOIN courses c ON c.id = s.course_id AND c.deleted_at IS NULL")
	return applyAuthorScope(query, filters)
}

func (s *CourseStatsPostgreSQL) TopCoursesByPurchases(ctx context.Context, filters repositories.CourseStatsFilters, limit int) ([]repositories.CoursePopularity, error) {
	type row struct {
		CourseID           uint
		Title              models.LocalizedColumn
		BaseLanguage       string
		FreePurchasedCount int64
		PaidPurchasedCount int64
	}

	query := s.summaryQuery(ctx, filters).
		Select("s.course_id, c.title, c.base_language, s.free_purchased_count, s.paid_purchased_count").
		Order("(s.free_purchased_count + s.paid_purchased_count) DESC").
		Order("s.course_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	courses := make([]repositories.CoursePopularity, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, repositories.CoursePopularity{
			CourseID:           r.CourseID,
			Title:              r.Title.Data(),
			BaseLanguage:       r.BaseLanguage,
			FreePurchasedCount: r.FreePurchasedCount,
			PaidPurchasedCount: r.PaidPurchasedCount,
		})
	}
	return courses, nil
}

func (s *CourseStatsPostgreSQL) SummaryTotals(ctx context.Context, filters repositories.CourseStatsFilters) (*repositories.SummaryTotals, error) {
	var totals repositories.SummaryTotals
	err := s.summaryQuery(ctx, filters).
		Select(`COALESCE(SUM(s.free_purchased_count), 0) AS free_purchased,
			COALESCE(SUM(s.paid_purchased_count), 0) AS paid_purchased,
			COALESCE(SUM(s.paid_purchased_after_freemium_count), 0) AS paid_purchased_after_freemium,
			COALESCE(SUM(s.completed_freemium_student_count), 0) AS completed_freemium_students,
			COALESCE(SUM(s.completed_course_student_count), 0) AS completed_course_students`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (s *CourseStatsPostgreSQL) FirstEnrollments(ctx context.Context, filters repositories.CourseStatsFilters) ([]repositories.StudentFirstEnrollment, error) {
	type row struct {
		StudentID string
		CreatedAt time.Time
	}

	query := s.db.WithContext(ctx).
		Table("student_courses AS sc").
		Select("sc.student_id, sc.created_at").
		Joins("JOIN courses c ON c.id = sc.course_id AND c.deleted_at IS NULL")
	query = applyAuthorScope(query, filters)

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	first := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		if at, ok := first[r.StudentID]; !ok || r.CreatedAt.Before(at) {
			first[r.StudentID] = r.CreatedAt
		}
	}

	result := make([]repositories.StudentFirstEnrollment, 0, len(first))
	for studentID, at := range first {
		result = append(result, repositories.StudentFirstEnrollment{StudentID: studentID, EnrolledAt: at})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StudentID < result[j].StudentID
	})
	return result, nil
}
