package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreatorHandler serves the content-creator dashboards
type CreatorHandler struct {
	BaseHandler
	creatorStatsService services.CreatorStatsService
	quizStatsService    services.QuizStatsService
	exportService       services.ExportService
}

func NewCreatorHandler(
	creatorStatsService services.CreatorStatsService,
	quizStatsService services.QuizStatsService,
	exportService services.ExportService,
	logger utils.Logger,
) *CreatorHandler {
	return &CreatorHandler{
		BaseHandler:         NewBaseHandler(logger),
		creatorStatsService: creatorStatsService,
		quizStatsService:    quizStatsService,
		exportService:       exportService,
	}
}

func creatorStatsRequest(c *gin.Context) services.CreatorStatsRequest {
	return services.CreatorStatsRequest{
		AuthorID: OptionalQuery(c, "author_id"),
		Language: c.Query("language"),
	}
}

// GetCreatorStats returns the creator dashboard bundle
// @Summary Get creator stats
// @Tags creators
// @Produce json
// @Param author_id query string false "Author ID, platform-wide when omitted"
// @Param language query string false "Preferred language"
// @Success 200 {object} SuccessResponse{data=services.CreatorStatsBundle}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /creators/stats [get]
func (h *CreatorHandler) GetCreatorStats(c *gin.Context) {
	req := creatorStatsRequest(c)
	h.LogRequest(c, "Getting creator stats", "author_id", req.AuthorID)

	bundle, err := h.creatorStatsService.GetCreatorStats(h.RequestContext(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, "Creator stats retrieved", bundle)
}

// ExportCreatorStats streams the creator dashboard as an xlsx workbook
// @Summary Export creator stats
// @Tags creators
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /creators/stats/export [get]
func (h *CreatorHandler) ExportCreatorStats(c *gin.Context) {
	req := creatorStatsRequest(c)
	h.LogRequest(c, "Exporting creator stats", "author_id", req.AuthorID)

	data, err := h.exportService.ExportCreatorStats(h.RequestContext(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := "creator-stats.xlsx"
	if req.AuthorID != nil {
		filename = fmt.Sprintf("creator-stats-%s.xlsx", *req.AuthorID)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetQuizAccuracy returns correct and wrong answer totals
// @Summary Get quiz accuracy
// @Tags creators
// @Produce json
// @Param author_id query string false "Author ID, platform-wide when omitted"
// @Success 200 {object} SuccessResponse{data=services.QuizAccuracyBundle}
// @Router /creators/quiz-accuracy [get]
func (h *CreatorHandler) GetQuizAccuracy(c *gin.Context) {
	authorID := OptionalQuery(c, "author_id")
	h.LogRequest(c, "Getting quiz accuracy", "author_id", authorID)

	bundle, err := h.quizStatsService.GetAuthorQuizAccuracy(h.RequestContext(c), services.QuizAccuracyRequest{AuthorID: authorID})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, "Quiz accuracy retrieved", bundle)
}
