package models

import "time"

// QuizAttempt is append-only: one row per attempt.
type QuizAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	StudentID      string    `json:"student_id" gorm:"not null;size:255;index"`
	CourseID       uint      `json:"course_id" gorm:"not null;index"`
	LessonID       uint      `json:"lesson_id" gorm:"not null;index"`
	CorrectAnswers int       `json:"correct_answers" gorm:"not null;default:0"`
	WrongAnswers   int       `json:"wrong_answers" gorm:"not null;default:0"`
	Score          int       `json:"score" gorm:"not null;default:0" validate:"min=0,max=100"`
	CreatedAt      time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
