package postgres

import (
	"context"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) StudentQuizTotals(ctx context.Context, studentID string) (*repositories.QuizTotals, error) {
	var totals repositories.QuizTotals
	err := q.db.WithContext(ctx).
		Table("quiz_attempts").
		Select(`COUNT(*) AS attempts,
			COALESCE(SUM(correct_answers), 0) AS correct,
			COALESCE(SUM(wrong_answers), 0) AS wrong,
			COALESCE(SUM(score), 0) AS score_sum,
			COUNT(DISTINCT lesson_id) AS unique_lessons`).
		Where("student_id = ?", studentID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (q *QuizPostgreSQL) AuthorQuizAccuracy(ctx context.Context, filters repositories.CourseStatsFilters) (*repositories.QuizAccuracy, error) {
	query := q.db.WithContext(ctx).
		Table("quiz_attempts AS qa").
		Select(`COALESCE(SUM(qa.correct_answers), 0) AS correct,
			COALESCE(SUM(qa.wrong_answers), 0) AS wrong`).
		Joins("JOIN courses c ON c.id = qa.course_id AND c.deleted_at IS NULL")
	query = applyAuthorScope(query, filters)

	var accuracy repositories.QuizAccuracy
	if err := query.Scan(&accuracy).Error; err != nil {
		return nil, err
	}
	return &accuracy, nil
}
