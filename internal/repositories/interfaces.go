package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
)

// Repository aggregates the read-only accessors the progression and analytics
// engine needs. Implementations own their connection lifecycle.
type Repository interface {
	Progress() ProgressRepository
	Trend() TrendRepository
	CourseStats() CourseStatsRepository
	Quiz() QuizRepository
}

// ===== NEXT LESSON ACCESSORS =====

type ProgressRepository interface {
	// LastCompletedLesson returns the most recently completed lesson of the
	// student among ENROLLED courses, or nil when there is no completion history.
	LastCompletedLesson(ctx context.Context, studentID string) (*CompletedLesson, error)

	// NextIncompleteLessonInCourse returns the first lesson of the course ordered
	// strictly after the given position that the student has not completed.
	NextIncompleteLessonInCourse(ctx context.Context, studentID string, courseID uint, after LessonPosition) (*LessonCandidate, error)

	// EnrolledCoursesWithoutCompletionHistory lists ENROLLED courses in which the
	// student has not completed any lesson, ordered by course id ascending.
	EnrolledCoursesWithoutCompletionHistory(ctx context.Context, studentID string) ([]uint, error)

	// FirstIncompleteLessonAcrossCourses returns the minimum
	// (course id, chapter order, lesson order) lesson not completed by the student.
	FirstIncompleteLessonAcrossCourses(ctx context.Context, studentID string, courseIDs []uint) (*LessonCandidate, error)

	ChapterProgressFor(ctx context.Context, studentID string, chapterID uint) (*models.ChapterProgress, error)
	IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error)
}

// ===== TREND ACCESSORS =====

type TrendRepository interface {
	// StartedByMonth counts distinct tracked entities first created per calendar
	// month in [from, to).
	StartedByMonth(ctx context.Context, studentID string, metric TrendMetric, from, to time.Time) ([]MonthlyCount, error)

	// CompletedByMonth counts tracking records whose completion falls in each
	// calendar month in [from, to).
	CompletedByMonth(ctx context.Context, studentID string, metric TrendMetric, from, to time.Time) ([]MonthlyCount, error)
}

// ===== CREATOR ACCESSORS =====

type CourseStatsRepository interface {
	// TopCoursesByPurchases ranks courses by free+paid purchases, course id ascending on ties.
	TopCoursesByPurchases(ctx context.Context, filters CourseStatsFilters, limit int) ([]CoursePopularity, error)
	SummaryTotals(ctx context.Context, filters CourseStatsFilters) (*SummaryTotals, error)

	// FirstEnrollments returns, per student, the earliest enrollment into a course in scope.
	FirstEnrollments(ctx context.Context, filters CourseStatsFilters) ([]StudentFirstEnrollment, error)
}

// ===== QUIZ ACCESSORS =====

type QuizRepository interface {
	StudentQuizTotals(ctx context.Context, studentID string) (*QuizTotals, error)
	AuthorQuizAccuracy(ctx context.Context, filters CourseStatsFilters) (*QuizAccuracy, error)
}
