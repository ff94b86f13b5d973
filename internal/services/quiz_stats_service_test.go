package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuizFixture() (*MockQuizRepository, QuizStatsService) {
	quiz := &MockQuizRepository{}
	return quiz, NewQuizStatsService(&testRepository{quiz: quiz}, newTestValidator(), discardLogger())
}

func TestGetQuizStats(t *testing.T) {
	quiz, svc := newQuizFixture()
	quiz.On("StudentQuizTotals", mock.Anything, testStudent).Return(&repositories.QuizTotals{
		Attempts:      3,
		Correct:       8,
		Wrong:         3,
		ScoreSum:      208,
		UniqueLessons: 2,
	}, nil)

	stats, err := svc.GetQuizStats(context.Background(), QuizStatsRequest{StudentID: testStudent})
	require.NoError(t, err)
	assert.Equal(t, &QuizStatsBundle{
		TotalAttempts:      3,
		TotalCorrect:       8,
		TotalWrong:         3,
		TotalQuestions:     11,
		AverageScore:       69.33,
		UniqueQuizzesTaken: 2,
	}, stats)
}

func TestGetQuizStats_NoAttempts(t *testing.T) {
	quiz, svc := newQuizFixture()
	quiz.On("StudentQuizTotals", mock.Anything, "newcomer").Return(&repositories.QuizTotals{}, nil)

	stats, err := svc.GetQuizStats(context.Background(), QuizStatsRequest{StudentID: "newcomer"})
	require.NoError(t, err)
	assert.Equal(t, &QuizStatsBundle{}, stats)
}

func TestGetQuizStats_Errors(t *testing.T) {
	quiz, svc := newQuizFixture()

	_, err := svc.GetQuizStats(context.Background(), QuizStatsRequest{})
	assert.True(t, IsInvalidArgument(err))

	cause := errors.New("read timeout")
	quiz.On("StudentQuizTotals", mock.Anything, testStudent).Return(nil, cause)
	_, err = svc.GetQuizStats(context.Background(), QuizStatsRequest{StudentID: testStudent})
	assert.True(t, IsStoreUnavailable(err))
	assert.ErrorIs(t, err, cause)
}

func TestGetAuthorQuizAccuracy(t *testing.T) {
	quiz, svc := newQuizFixture()
	quiz.On("AuthorQuizAccuracy", mock.Anything, repositories.CourseStatsFilters{AuthorID: strPtr("author-1")}).
		Return(&repositories.QuizAccuracy{Correct: 9, Wrong: 3}, nil)
	quiz.On("AuthorQuizAccuracy", mock.Anything, repositories.CourseStatsFilters{}).
		Return(nil, nil)

	accuracy, err := svc.GetAuthorQuizAccuracy(context.Background(), QuizAccuracyRequest{AuthorID: strPtr(" author-1 ")})
	require.NoError(t, err)
	assert.Equal(t, &QuizAccuracyBundle{CorrectCount: 9, WrongCount: 3}, accuracy)

	accuracy, err = svc.GetAuthorQuizAccuracy(context.Background(), QuizAccuracyRequest{})
	require.NoError(t, err)
	assert.Equal(t, &QuizAccuracyBundle{}, accuracy)

	_, err = svc.GetAuthorQuizAccuracy(context.Background(), QuizAccuracyRequest{AuthorID: strPtr("")})
	assert.True(t, IsInvalidArgument(err))
}
