package counters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
)

var columnsByEvent = map[events.EventType]repositories.CounterColumn{
	events.EventCoursePurchasedFree:          repositories.CounterFreePurchased,
	events.EventCoursePurchasedPaid:          repositories.CounterPaidPurchased,
	events.EventCoursePurchasedAfterFreemium: repositories.CounterPaidPurchasedAfterFreemium,
	events.EventCourseFreemiumCompleted:      repositories.CounterCompletedFreemiumStudents,
	events.EventCourseCompleted:              repositories.CounterCompletedCourseStudents,
}

// ColumnFor maps an event type to the counter it increments.
func ColumnFor(eventType events.EventType) (repositories.CounterColumn, bool) {
	column, ok := columnsByEvent[eventType]
	return column, ok
}

// Outcome describes what happened to a single event.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

// Projector folds counter events into CourseSummaryStats. It is the only
// writer of the summary counters.
type Projector struct {
	subscriber message.Subscriber
	repo       repositories.CounterRepository
	topic      string
	logger     *slog.Logger
	onApplied  func(ctx context.Context, event *events.CounterEvent) error
}

func NewProjector(subscriber message.Subscriber, repo repositories.CounterRepository, topic string, logger *slog.Logger) *Projector {
	return &Projector{
		subscriber: subscriber,
		repo:       repo,
		topic:      topic,
		logger:     logger.With("component", "counter_projector", "topic", topic),
	}
}

// OnApplied registers a hook run after an event changed a counter, e.g. to
// drop cached dashboards. Hook failures are logged and do not redeliver.
func (p *Projector) OnApplied(hook func(ctx context.Context, event *events.CounterEvent) error) {
	p.onApplied = hook
}

// Run consumes the topic until ctx is cancelled or the subscription closes.
func (p *Projector) Run(ctx context.Context) error {
	messages, err := p.subscriber.Subscribe(ctx, p.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", p.topic, err)
	}

	p.logger.Info("Counter projector started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Counter projector stopped")
			return nil
		case msg, ok := <-messages:
			if !ok {
				p.logger.Info("Counter subscription closed")
				return nil
			}
			p.handle(ctx, msg)
		}
	}
}

func (p *Projector) handle(ctx context.Context, msg *message.Message) {
	event, err := events.DecodeCounterEvent(msg.Payload)
	if err != nil {
		p.logger.Warn("Dropping undecodable counter event", "message_id", msg.UUID, "error", err)
		msg.Ack()
		return
	}

	outcome, err := p.Apply(ctx, event)
	if err != nil {
		p.logger.Error("Failed to apply counter event, will be redelivered",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		msg.Nack()
		return
	}

	if outcome == OutcomeApplied && p.onApplied != nil {
		if err := p.onApplied(ctx, event); err != nil {
			p.logger.Warn("Counter applied hook failed", "event_id", event.ID, "error", err)
		}
	}

	p.logger.Debug("Counter event processed",
		"event_id", event.ID,
		"event_type", event.Type,
		"course_id", event.CourseID,
		"outcome", outcome)
	msg.Ack()
}

// Apply records one event. Duplicates and events that can never succeed
// (unknown type or course) are reported as outcomes, not errors, so the
// caller acknowledges them. A returned error is transient.
func (p *Projector) Apply(ctx context.Context, event *events.CounterEvent) (Outcome, error) {
	column, ok := ColumnFor(event.Type)
	if !ok {
		p.logger.Warn("Rejecting counter event of unknown type", "event_id", event.ID, "event_type", event.Type)
		return OutcomeRejected, nil
	}

	entry := &models.CounterEventLog{
		EventID:    event.ID,
		Type:       string(event.Type),
		CourseID:   event.CourseID,
		StudentID:  event.StudentID,
		OccurredAt: event.OccurredAt,
	}

	applied, err := p.repo.ApplyIncrement(ctx, entry, column)
	switch {
	case errors.Is(err, repositories.ErrUnknownCourse):
		p.logger.Warn("Rejecting counter event for unknown course", "event_id", event.ID, "course_id", event.CourseID)
		return OutcomeRejected, nil
	case err != nil:
		return "", err
	case !applied:
		return OutcomeDuplicate, nil
	}
	return OutcomeApplied, nil
}
