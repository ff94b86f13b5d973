package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a counter event
type EventType string

const (
	EventCoursePurchasedFree          EventType = "course.purchased.free"
	EventCoursePurchasedPaid          EventType = "course.purchased.paid"
	EventCoursePurchasedAfterFreemium EventType = "course.purchased.after_freemium"
	EventCourseFreemiumCompleted      EventType = "course.freemium.completed"
	EventCourseCompleted              EventType = "course.completed"
)

const (
	EventSource  = "progress-service"
	EventVersion = "1.0"
)

var (
	ErrMalformedEvent   = errors.New("malformed counter event")
	ErrUnknownEventType = errors.New("unknown counter event type")
)

// Known reports whether t is one of the counter event types.
func (t EventType) Known() bool {
	switch t {
	case EventCoursePurchasedFree, EventCoursePurchasedPaid, EventCoursePurchasedAfterFreemium,
		EventCourseFreemiumCompleted, EventCourseCompleted:
		return true
	}
	return false
}

// CounterEvent is a domain fact that increments one CourseSummaryStats counter.
// The ID makes delivery idempotent: an event applied twice is counted once.
type CounterEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	CourseID   uint      `json:"course_id"`
	StudentID  string    `json:"student_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source"`
	Version    string    `json:"version"`
}

// NewCounterEvent creates an event with a fresh id.
func NewCounterEvent(eventType EventType, courseID uint, studentID string, occurredAt time.Time) *CounterEvent {
	return &CounterEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		CourseID:   courseID,
		StudentID:  studentID,
		OccurredAt: occurredAt.UTC(),
		Source:     EventSource,
		Version:    EventVersion,
	}
}

func (e *CounterEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedEvent)
	}
	if e.CourseID == 0 {
		return fmt.Errorf("%w: missing course_id", ErrMalformedEvent)
	}
	if !e.Type.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	return nil
}

// DecodeCounterEvent parses and validates a message payload.
func DecodeCounterEvent(payload []byte) (*CounterEvent, error) {
	var event CounterEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := event.Validate(); err != nil {
		return &event, err
	}
	return &event, nil
}
