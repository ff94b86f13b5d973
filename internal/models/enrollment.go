package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentUnenrolled EnrollmentStatus = "UNENROLLED"
)

// StudentCourse is the enrollment row and the course level tracking record:
// CreatedAt marks when the course was started and CompletedAt when it was finished.
// At most one ENROLLED row exists per (student, course).
type StudentCourse struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	StudentID   string           `json:"student_id" gorm:"not null;size:255;index:idx_student_course"`
	CourseID    uint             `json:"course_id" gorm:"not null;index:idx_student_course"`
	Status      EnrollmentStatus `json:"status" gorm:"not null;size:20;default:ENROLLED;index"`
	CompletedAt *time.Time       `json:"completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (StudentCourse) TableName() string {
	return "student_courses"
}
