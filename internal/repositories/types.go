package repositories

import (
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
)

type TrendMetric string

const (
	MetricCourse        TrendMetric = "course"
	MetricLessonChapter TrendMetric = "lessonChapter"
)

func (m TrendMetric) Valid() bool {
	return m == MetricCourse || m == MetricLessonChapter
}

// LessonPosition is a point in the (chapter order, lesson order) reading order of a course.
type LessonPosition struct {
	ChapterDisplayOrder int `json:"chapter_display_order"`
	LessonDisplayOrder  int `json:"lesson_display_order"`
}

type CompletedLesson struct {
	LessonID    uint           `json:"lesson_id"`
	ChapterID   uint           `json:"chapter_id"`
	CourseID    uint           `json:"course_id"`
	Position    LessonPosition `json:"position"`
	CompletedAt time.Time      `json:"completed_at"`
}

// LessonCandidate carries everything needed to present a lesson as "next".
type LessonCandidate struct {
	LessonID  uint           `json:"lesson_id"`
	ChapterID uint           `json:"chapter_id"`
	Position  LessonPosition `json:"position"`

	ChapterTitle       models.LocalizedText `json:"chapter_title"`
	ChapterLessonCount int                  `json:"chapter_lesson_count"`

	CourseID          uint                 `json:"course_id"`
	CourseTitle       models.LocalizedText `json:"course_title"`
	CourseDescription models.LocalizedText `json:"course_description"`
	CourseThumbnail   *string              `json:"course_thumbnail"`
	BaseLanguage      string               `json:"base_language"`
}

type MonthlyCount struct {
	// Month is the first instant of the calendar month, UTC.
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// CourseStatsFilters scopes creator statistics. A nil AuthorID means platform-wide.
type CourseStatsFilters struct {
	AuthorID *string `json:"author_id"`
}

type CoursePopularity struct {
	CourseID           uint                 `json:"course_id"`
	Title              models.LocalizedText `json:"title"`
	BaseLanguage       string               `json:"base_language"`
	FreePurchasedCount int64                `json:"free_purchased_count"`
	PaidPurchasedCount int64                `json:"paid_purchased_count"`
}

func (c CoursePopularity) Purchases() int64 {
	return c.FreePurchasedCount + c.PaidPurchasedCount
}

type SummaryTotals struct {
	FreePurchased              int64 `json:"free_purchased"`
	PaidPurchased              int64 `json:"paid_purchased"`
	PaidPurchasedAfterFreemium int64 `json:"paid_purchased_after_freemium"`
	CompletedFreemiumStudents  int64 `json:"completed_freemium_students"`
	CompletedCourseStudents    int64 `json:"completed_course_students"`
}

type StudentFirstEnrollment struct {
	StudentID  string    `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type QuizTotals struct {
	Attempts      int64 `json:"attempts"`
	Correct       int64 `json:"correct"`
	Wrong         int64 `json:"wrong"`
	ScoreSum      int64 `json:"score_sum"`
	UniqueLessons int64 `json:"unique_lessons"`
}

type QuizAccuracy struct {
	Correct int64 `json:"correct"`
	Wrong   int64 `json:"wrong"`
}
