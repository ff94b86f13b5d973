package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

const candidateColumns = `l.id AS lesson_id, ch.id AS chapter_id,
	ch.display_order AS chapter_display_order, l.display_order AS lesson_display_order,
	ch.title AS chapter_title, ch.lesson_count AS chapter_lesson_count,
	c.id AS course_id, c.title AS course_title, c.description AS course_description,
	c.thumbnail_url AS course_thumbnail, c.base_language AS base_language`

const notCompletedByStudent = `NOT EXISTS (
	SELECT 1 FROM student_lesson_progress lp
	WHERE lp.lesson_id = l.id AND lp.student_id = ? AND lp.completed_at IS NOT NULL)`

const enrolledInCourse = `EXISTS (
	SELECT 1 FROM student_courses sc
	WHERE sc.course_id = c.id AND sc.student_id = ? AND sc.status = ?)`

type candidateRow struct {
	LessonID            uint
	ChapterID           uint
	ChapterDisplayOrder int
	LessonDisplayOrder  int
	ChapterTitle        models.LocalizedColumn
	ChapterLessonCount  int
	CourseID            uint
	CourseTitle         models.LocalizedColumn
	CourseDescription   models.LocalizedColumn
	CourseThumbnail     *string
	BaseLanguage        string
}

func (r candidateRow) toCandidate() *repositories.LessonCandidate {
	return &repositories.LessonCandidate{
		LessonID:  r.LessonID,
		ChapterID: r.ChapterID,
		Position: repositories.LessonPosition{
			ChapterDisplayOrder: r.ChapterDisplayOrder,
			LessonDisplayOrder:  r.LessonDisplayOrder,
		},
		ChapterTitle:       r.ChapterTitle.Data(),
		ChapterLessonCount: r.ChapterLessonCount,
		CourseID:           r.CourseID,
		CourseTitle:        r.CourseTitle.Data(),
		CourseDescription:  r.CourseDescription.Data(),
		CourseThumbnail:    r.CourseThumbnail,
		BaseLanguage:       r.BaseLanguage,
	}
}

func (p *ProgressPostgreSQL) candidateQuery(ctx context.Context, studentID string) *gorm.DB {
	return p.db.WithContext(ctx).
		Table("lessons AS l").
		Select(candidateColumns).
		Joins("JOIN chapters ch ON ch.id = l.chapter_id").
		Joins("JOIN courses c ON c.id = ch.course_id AND c.deleted_at IS NULL").
		Where(notCompletedByStudent, studentID).
		Where(enrolledInCourse, studentID, models.EnrollmentEnrolled)
}

func firstCandidate(query *gorm.DB) (*repositories.LessonCandidate, error) {
	var rows []candidateRow
	if err := query.Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toCandidate(), nil
}

func (p *ProgressPostgreSQL) LastCompletedLesson(ctx context.Context, studentID string) (*repositories.CompletedLesson, error) {
	type row struct {
		LessonID            uint
		ChapterID           uint
		CourseID            uint
		ChapterDisplayOrder int
		LessonDisplayOrder  int
		CompletedAt         time.Time
	}

	var rows []row
	err := p.db.WithContext(ctx).
		Table("student_lesson_progress AS lp").
		Select(`lp.lesson_id, lp.chapter_id, ch.course_id,
			ch.display_order AS chapter_display_order, l.display_order AS lesson_display_order,
			lp.completed_at`).
		Joins("JOIN lessons l ON l.id = lp.lesson_id").
		Joins("JOIN chapters ch ON ch.id = lp.chapter_id").
		Joins("JOIN student_courses sc ON sc.course_id = ch.course_id AND sc.student_id = lp.student_id AND sc.status = ?", models.EnrollmentEnrolled).
		Where("lp.student_id = ? AND lp.completed_at IS NOT NULL", studentID).
		Order("lp.completed_at DESC").
		Order("lp.id DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	last := rows[0]
	return &repositories.CompletedLesson{
		LessonID:  last.LessonID,
		ChapterID: last.ChapterID,
		CourseID:  last.CourseID,
		Position: repositories.LessonPosition{
			ChapterDisplayOrder: last.ChapterDisplayOrder,
			LessonDisplayOrder:  last.LessonDisplayOrder,
		},
		CompletedAt: last.CompletedAt,
	}, nil
}

func (p *ProgressPostgreSQL) NextIncompleteLessonInCourse(ctx context.Context, studentID string, courseID uint, after repositories.LessonPosition) (*repositories.LessonCandidate, error) {
	query := p.candidateQuery(ctx, studentID).
		Where("c.id = ?", courseID).
		Where("(ch.display_order > ? OR (ch.display_order = ? AND l.display_order > ?))",
			after.ChapterDisplayOrder, after.ChapterDisplayOrder, after.LessonDisplayOrder).
		Order("ch.display_order ASC").
		Order("l.display_order ASC")

	return firstCandidate(query)
}

func (p *ProgressPostgreSQL) EnrolledCoursesWithoutCompletionHistory(ctx context.Context, studentID string) ([]uint, error) {
	var courseIDs []uint
	err := p.db.WithContext(ctx).
		Table("student_courses AS sc").
		Distinct("sc.course_id").
		Joins("JOIN courses c ON c.id = sc.course_id AND c.deleted_at IS NULL").
		Where("sc.student_id = ? AND sc.status = ?", studentID, models.EnrollmentEnrolled).
		Where(`NOT EXISTS (
			SELECT 1 FROM student_lesson_progress lp
			JOIN chapters ch ON ch.id = lp.chapter_id
			WHERE lp.student_id = sc.student_id AND ch.course_id = sc.course_id AND lp.completed_at IS NOT NULL)`).
		Order("sc.course_id ASC").
		Pluck("sc.course_id", &courseIDs).Error
	if err != nil {
		return nil, err
	}
	return courseIDs, nil
}

func (p *ProgressPostgreSQL) FirstIncompleteLessonAcrossCourses(ctx context.Context, studentID string, courseIDs []uint) (*repositories.LessonCandidate, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	query := p.candidateQuery(ctx, studentID).
		Where("c.id IN ?", courseIDs).
		Order("c.id ASC").
		Order("ch.display_order ASC").
		Order("l.display_order ASC")

	return firstCandidate(query)
}

func (p *ProgressPostgreSQL) ChapterProgressFor(ctx context.Context, studentID string, chapterID uint) (*models.ChapterProgress, error) {
	var progress models.ChapterProgress
	if err := p.db.WithContext(ctx).
		Where("student_id = ? AND chapter_id = ?", studentID, chapterID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &progress, nil
}

func (p *ProgressPostgreSQL) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).
		Model(&models.StudentCourse{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, models.EnrollmentEnrolled).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
