package models

import "time"

// CourseSummaryStats holds monotonically non-decreasing counters per course.
// Only the counter projector writes these rows.
type CourseSummaryStats struct {
	CourseID                        uint   `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	AuthorID                        string `json:"author_id" gorm:"not null;size:255;index"`
	FreePurchasedCount              int64  `json:"free_purchased_count" gorm:"not null;default:0"`
	PaidPurchasedCount              int64  `json:"paid_purchased_count" gorm:"not null;default:0"`
	PaidPurchasedAfterFreemiumCount int64  `json:"paid_purchased_after_freemium_count" gorm:"not null;default:0"`
	CompletedFreemiumStudentCount   int64  `json:"completed_freemium_student_count" gorm:"not null;default:0"`
	CompletedCourseStudentCount     int64  `json:"completed_course_student_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseSummaryStats) TableName() string {
	return "course_summary_stats"
}

// CounterEventLog records every applied counter event. The event id is the
// primary key so a replayed event is rejected instead of double counted.
type CounterEventLog struct {
	EventID    string    `json:"event_id" gorm:"primaryKey;size:64"`
	Type       string    `json:"type" gorm:"not null;size:64;index"`
	CourseID   uint      `json:"course_id" gorm:"not null;index"`
	StudentID  string    `json:"student_id" gorm:"size:255"`
	OccurredAt time.Time `json:"occurred_at"`
	AppliedAt  time.Time `json:"applied_at"`
}

func (CounterEventLog) TableName() string {
	return "counter_event_log"
}
