package handlers

import (
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the student-facing progression endpoints
type ProgressHandler struct {
	BaseHandler
	nextLessonService services.NextLessonService
	trendService      services.TrendService
	quizStatsService  services.QuizStatsService
}

func NewProgressHandler(
	nextLessonService services.NextLessonService,
	trendService services.TrendService,
	quizStatsService services.QuizStatsService,
	logger utils.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:       NewBaseHandler(logger),
		nextLessonService: nextLessonService,
		trendService:      trendService,
		quizStatsService:  quizStatsService,
	}
}

// GetNextLesson resolves where the student should continue reading
// @Summary Get next lesson
// @Tags students
// @Produce json
// @Param student_id path string true "Student ID"
// @Param language query string false "Preferred language"
// @Success 200 {object} SuccessResponse{data=services.NextLesson}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /students/{student_id}/next-lesson [get]
func (h *ProgressHandler) GetNextLesson(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Resolving next lesson", "student_id", studentID)

	next, err := h.nextLessonService.ResolveNextLesson(h.RequestContext(c), services.NextLessonRequest{
		StudentID: studentID,
		Language:  c.Query("language"),
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if next == nil {
		h.RespondWithSuccess(c, "No lesson to continue", nil)
		return
	}
	h.RespondWithSuccess(c, "Next lesson resolved", next)
}

// GetMonthlyTrend returns monthly start and completion counts
// @Summary Get monthly trend
// @Tags students
// @Produce json
// @Param student_id path string true "Student ID"
// @Param metric path string true "course or lessonChapter"
// @Success 200 {object} SuccessResponse{data=[]services.MonthStat}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /students/{student_id}/trends/{metric} [get]
func (h *ProgressHandler) GetMonthlyTrend(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	metric := repositories.TrendMetric(c.Param("metric"))

	h.LogRequest(c, "Getting monthly trend", "student_id", studentID, "metric", metric)

	stats, err := h.trendService.GetMonthlyTrend(h.RequestContext(c), services.TrendRequest{
		StudentID: studentID,
		Metric:    metric,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, "Monthly trend retrieved", stats)
}

// GetQuizStats returns the student's quiz totals
// @Summary Get quiz stats
// @Tags students
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse{data=services.QuizStatsBundle}
// @Router /students/{student_id}/quiz-stats [get]
func (h *ProgressHandler) GetQuizStats(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	h.LogRequest(c, "Getting quiz stats", "student_id", studentID)

	stats, err := h.quizStatsService.GetQuizStats(h.RequestContext(c), services.QuizStatsRequest{StudentID: studentID})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, "Quiz stats retrieved", stats)
}
