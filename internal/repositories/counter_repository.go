package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/progress-service/internal/models"
)

// CounterColumn names an incrementable CourseSummaryStats counter.
type CounterColumn string

const (
	CounterFreePurchased              CounterColumn = "free_purchased_count"
	CounterPaidPurchased              CounterColumn = "paid_purchased_count"
	CounterPaidPurchasedAfterFreemium CounterColumn = "paid_purchased_after_freemium_count"
	CounterCompletedFreemiumStudents  CounterColumn = "completed_freemium_student_count"
	CounterCompletedCourseStudents    CounterColumn = "completed_course_student_count"
)

func (c CounterColumn) Valid() bool {
	switch c {
	case CounterFreePurchased, CounterPaidPurchased, CounterPaidPurchasedAfterFreemium,
		CounterCompletedFreemiumStudents, CounterCompletedCourseStudents:
		return true
	}
	return false
}

var ErrUnknownCourse = errors.New("course does not exist")

// CounterRepository is the write side of CourseSummaryStats. It is used only by
// the counter projector, never by the read-only engine.
type CounterRepository interface {
	// ApplyIncrement records the event and increments the counter in one
	// transaction. It reports false when the event was already applied.
	ApplyIncrement(ctx context.Context, entry *models.CounterEventLog, column CounterColumn) (bool, error)
}
