package counters

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) ApplyIncrement(ctx context.Context, entry *models.CounterEventLog, column repositories.CounterColumn) (bool, error) {
	args := m.Called(ctx, entry, column)
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventID(id string) interface{} {
	return mock.MatchedBy(func(entry *models.CounterEventLog) bool { return entry.EventID == id })
}

func TestColumnFor(t *testing.T) {
	for _, eventType := range []events.EventType{
		events.EventCoursePurchasedFree,
		events.EventCoursePurchasedPaid,
		events.EventCoursePurchasedAfterFreemium,
		events.EventCourseFreemiumCompleted,
		events.EventCourseCompleted,
	} {
		column, ok := ColumnFor(eventType)
		assert.True(t, ok, eventType)
		assert.True(t, column.Valid(), eventType)
	}

	_, ok := ColumnFor("course.refunded")
	assert.False(t, ok)
}

func TestProjector_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		repo := new(MockCounterRepository)
		event := events.NewCounterEvent(events.EventCoursePurchasedPaid, 4, "s1", time.Now())
		repo.On("ApplyIncrement", ctx, eventID(event.ID), repositories.CounterPaidPurchased).Return(true, nil)

		outcome, err := NewProjector(nil, repo, "t", discardLogger()).Apply(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeApplied, outcome)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := new(MockCounterRepository)
		event := events.NewCounterEvent(events.EventCourseCompleted, 4, "s1", time.Now())
		repo.On("ApplyIncrement", ctx, eventID(event.ID), repositories.CounterCompletedCourseStudents).Return(false, nil)

		outcome, err := NewProjector(nil, repo, "t", discardLogger()).Apply(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, outcome)
	})

	t.Run("unknown course is rejected", func(t *testing.T) {
		repo := new(MockCounterRepository)
		event := events.NewCounterEvent(events.EventCoursePurchasedFree, 99, "s1", time.Now())
		repo.On("ApplyIncrement", ctx, eventID(event.ID), repositories.CounterFreePurchased).
			Return(false, repositories.ErrUnknownCourse)

		outcome, err := NewProjector(nil, repo, "t", discardLogger()).Apply(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRejected, outcome)
	})

	t.Run("unknown type never reaches the store", func(t *testing.T) {
		repo := new(MockCounterRepository)
		event := &events.CounterEvent{ID: "e1", Type: "course.refunded", CourseID: 1}

		outcome, err := NewProjector(nil, repo, "t", discardLogger()).Apply(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeRejected, outcome)
		repo.AssertNotCalled(t, "ApplyIncrement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := new(MockCounterRepository)
		event := events.NewCounterEvent(events.EventCoursePurchasedPaid, 4, "s1", time.Now())
		boom := errors.New("connection reset")
		repo.On("ApplyIncrement", ctx, eventID(event.ID), repositories.CounterPaidPurchased).Return(false, boom)

		_, err := NewProjector(nil, repo, "t", discardLogger()).Apply(ctx, event)
		assert.ErrorIs(t, err, boom)
	})
}

func TestProjector_Run(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := events.NewCounterEvent(events.EventCoursePurchasedFree, 1, "s1", time.Now())
	second := events.NewCounterEvent(events.EventCourseCompleted, 2, "s2", time.Now())

	done := make(chan string, 4)
	repo := new(MockCounterRepository)
	// The first attempt at the second event fails and must be redelivered.
	repo.On("ApplyIncrement", mock.Anything, eventID(first.ID), repositories.CounterFreePurchased).
		Return(true, nil).Once().
		Run(func(args mock.Arguments) { done <- first.ID })
	repo.On("ApplyIncrement", mock.Anything, eventID(second.ID), repositories.CounterCompletedCourseStudents).
		Return(false, errors.New("deadlock detected")).Once()
	repo.On("ApplyIncrement", mock.Anything, eventID(second.ID), repositories.CounterCompletedCourseStudents).
		Return(true, nil).Once().
		Run(func(args mock.Arguments) { done <- second.ID })

	publisher := events.NewWatermillEventPublisher(pubSub, "counters", discardLogger())
	require.NoError(t, publisher.PublishCounterEvent(ctx, first))
	require.NoError(t, pubSub.Publish("counters", message.NewMessage("garbage", []byte("not json"))))
	require.NoError(t, publisher.PublishCounterEvent(ctx, second))

	projector := NewProjector(pubSub, repo, "counters", discardLogger())
	hooked := make(chan string, 4)
	projector.OnApplied(func(_ context.Context, event *events.CounterEvent) error {
		hooked <- event.ID
		return errors.New("cache down")
	})
	runErr := make(chan error, 1)
	go func() { runErr <- projector.Run(ctx) }()

	var applied []string
	for len(applied) < 2 {
		select {
		case id := <-done:
			applied = append(applied, id)
		case <-ctx.Done():
			t.Fatalf("projector applied only %v", applied)
		}
	}

	// Stored messages are replayed to a new subscriber concurrently, so only
	// the set of applied events is stable.
	assert.ElementsMatch(t, []string{first.ID, second.ID}, applied)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{<-hooked, <-hooked})
	cancel()
	assert.NoError(t, <-runErr)
	repo.AssertExpectations(t)
}
