package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
)

type QuizStatsService interface {
	GetQuizStats(ctx context.Context, req QuizStatsRequest) (*QuizStatsBundle, error)
	// GetAuthorQuizAccuracy reports platform-wide sums when AuthorID is nil.
	GetAuthorQuizAccuracy(ctx context.Context, req QuizAccuracyRequest) (*QuizAccuracyBundle, error)
}

type QuizStatsRequest struct {
	StudentID string `json:"student_id" validate:"required,not_blank,max=255"`
}

type QuizAccuracyRequest struct {
	AuthorID *string `json:"author_id" validate:"omitempty,not_blank,max=255"`
}

type QuizStatsBundle struct {
	TotalAttempts      int64   `json:"totalAttempts"`
	TotalCorrect       int64   `json:"totalCorrect"`
	TotalWrong         int64   `json:"totalWrong"`
	TotalQuestions     int64   `json:"totalQuestions"`
	AverageScore       float64 `json:"averageScore"`
	UniqueQuizzesTaken int64   `json:"uniqueQuizzesTaken"`
}

type QuizAccuracyBundle struct {
	CorrectCount int64 `json:"correctCount"`
	WrongCount   int64 `json:"wrongCount"`
}

type quizStatsService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewQuizStatsService(repo repositories.Repository, validator *validator.Validator, logger *slog.Logger) QuizStatsService {
	return &quizStatsService{
		repo:      repo,
		validator: validator,
		logger: NewServiceLogger(logger, LogConfig{
			Service:   "progress-service",
			Component: "quiz_stats",
		}),
	}
}

func (s *quizStatsService) GetQuizStats(ctx context.Context, req QuizStatsRequest) (bundle *QuizStatsBundle, err error) {
	op := s.logger.WithOperation(ctx, "get_quiz_stats", req.StudentID)
	defer func() { op.LogResult(err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	totals, err := s.repo.Quiz().StudentQuizTotals(ctx, req.StudentID)
	if err != nil {
		return nil, storeError("student_quiz_totals", err)
	}
	if totals == nil {
		totals = &repositories.QuizTotals{}
	}

	return &QuizStatsBundle{
		TotalAttempts:      totals.Attempts,
		TotalCorrect:       totals.Correct,
		TotalWrong:         totals.Wrong,
		TotalQuestions:     totals.Correct + totals.Wrong,
		AverageScore:       mean(totals.ScoreSum, totals.Attempts),
		UniqueQuizzesTaken: totals.UniqueLessons,
	}, nil
}

func (s *quizStatsService) GetAuthorQuizAccuracy(ctx context.Context, req QuizAccuracyRequest) (bundle *QuizAccuracyBundle, err error) {
	req.AuthorID = normalizeAuthorID(req.AuthorID)
	subject := "platform"
	if req.AuthorID != nil {
		subject = *req.AuthorID
	}
	op := s.logger.WithOperation(ctx, "get_author_quiz_accuracy", subject)
	defer func() { op.LogResult(err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	accuracy, err := s.repo.Quiz().AuthorQuizAccuracy(ctx, repositories.CourseStatsFilters{AuthorID: req.AuthorID})
	if err != nil {
		return nil, storeError("author_quiz_accuracy", err)
	}
	if accuracy == nil {
		accuracy = &repositories.QuizAccuracy{}
	}

	return &QuizAccuracyBundle{
		CorrectCount: accuracy.Correct,
		WrongCount:   accuracy.Wrong,
	}, nil
}
