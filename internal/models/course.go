package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Title        LocalizedColumn `json:"title" gorm:"type:jsonb;not null"`
	Description  LocalizedColumn `json:"description" gorm:"type:jsonb"`
	ThumbnailURL *string         `json:"thumbnail_url" gorm:"size:500"`
	BaseLanguage string          `json:"base_language" gorm:"not null;size:10;default:en"`
	AuthorID     string          `json:"author_id" gorm:"not null;size:255;index"`
	IsPublished  bool            `json:"is_published" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

// Chapter display order is unique per course; gaps are allowed.
type Chapter struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CourseID     uint            `json:"course_id" gorm:"not null;uniqueIndex:idx_chapter_course_order"`
	Title        LocalizedColumn `json:"title" gorm:"type:jsonb;not null"`
	DisplayOrder int             `json:"display_order" gorm:"not null;uniqueIndex:idx_chapter_course_order"`
	LessonCount  int             `json:"lesson_count" gorm:"not null;default:0"`
	IsFreemium   bool            `json:"is_freemium" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ChapterID"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Lesson display order is unique per chapter.
type Lesson struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ChapterID    uint   `json:"chapter_id" gorm:"not null;uniqueIndex:idx_lesson_chapter_order"`
	DisplayOrder int    `json:"display_order" gorm:"not null;uniqueIndex:idx_lesson_chapter_order"`
	Type         string `json:"type" gorm:"size:50;default:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
