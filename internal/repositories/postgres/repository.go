package postgres

import (
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	progress    repositories.ProgressRepository
	trend       repositories.TrendRepository
	courseStats repositories.CourseStatsRepository
	quiz        repositories.QuizRepository
}

// NewRepository builds the gorm backed Progress Store Adapter.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		progress:    NewProgressPostgreSQL(db),
		trend:       NewTrendPostgreSQL(db),
		courseStats: NewCourseStatsPostgreSQL(db),
		quiz:        NewQuizPostgreSQL(db),
	}
}

func (r *repository) Progress() repositories.ProgressRepository       { return r.progress }
func (r *repository) Trend() repositories.TrendRepository             { return r.trend }
func (r *repository) CourseStats() repositories.CourseStatsRepository { return r.courseStats }
func (r *repository) Quiz() repositories.QuizRepository               { return r.quiz }
