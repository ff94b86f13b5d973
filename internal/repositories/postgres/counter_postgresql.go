package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterPostgreSQL struct {
	db *gorm.DB
}

func NewCounterPostgreSQL(db *gorm.DB) repositories.CounterRepository {
	return &CounterPostgreSQL{db: db}
}

func (c *CounterPostgreSQL) ApplyIncrement(ctx context.Context, entry *models.CounterEventLog, column repositories.CounterColumn) (bool, error) {
	if !column.Valid() {
		return false, fmt.Errorf("invalid counter column %q", column)
	}

	applied := false
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Select("id", "author_id").First(&course, entry.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", repositories.ErrUnknownCourse, entry.CourseID)
			}
			return err
		}

		if entry.AppliedAt.IsZero() {
			entry.AppliedAt = time.Now()
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		stats := models.CourseSummaryStats{CourseID: course.ID, AuthorID: course.AuthorID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stats).Error; err != nil {
			return err
		}

		col := string(column)
		if err := tx.Model(&models.CourseSummaryStats{}).
			Where("course_id = ?", course.ID).
			Updates(map[string]interface{}{
				col:         gorm.Expr(col+" + ?", 1),
				"author_id": course.AuthorID,
			}).Error; err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
