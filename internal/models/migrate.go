package models

import "gorm.io/gorm"

// AllModels lists the tables owned by this service, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&Course{},
		&Chapter{},
		&Lesson{},
		&StudentCourse{},
		&ChapterProgress{},
		&LessonProgress{},
		&QuizAttempt{},
		&CourseSummaryStats{},
		&CounterEventLog{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
