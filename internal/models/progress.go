package models

import "time"

type ChapterProgressStatus string

const (
	ChapterNotStarted ChapterProgressStatus = "NOT_STARTED"
	ChapterInProgress ChapterProgressStatus = "IN_PROGRESS"
	ChapterCompleted  ChapterProgressStatus = "COMPLETED"
)

// ChapterProgress exists once completion tracking starts for a chapter.
// CompletedAt is set once and never cleared.
type ChapterProgress struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	StudentID            string     `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_chapter_progress_student"`
	ChapterID            uint       `json:"chapter_id" gorm:"not null;uniqueIndex:idx_chapter_progress_student"`
	CourseID             uint       `json:"course_id" gorm:"not null;index"`
	CompletedLessonCount int        `json:"completed_lesson_count" gorm:"not null;default:0"`
	CompletedAt          *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChapterProgress) TableName() string {
	return "student_chapter_progress"
}

// Status derives the display status of the chapter for the student.
func (cp *ChapterProgress) Status() ChapterProgressStatus {
	switch {
	case cp == nil:
		return ChapterNotStarted
	case cp.CompletedAt != nil:
		return ChapterCompleted
	case cp.CompletedLessonCount > 0:
		return ChapterInProgress
	default:
		return ChapterNotStarted
	}
}

// LessonProgress is created on first interaction; CompletedAt is terminal.
type LessonProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   string     `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_lesson_progress_student"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_student"`
	ChapterID   uint       `json:"chapter_id" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "student_lesson_progress"
}
