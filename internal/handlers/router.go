package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const serviceName = "progress-service"

// Pinger reports whether a backing store is reachable, e.g. *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HandlerManager struct {
	progressHandler *ProgressHandler
	creatorHandler  *CreatorHandler
	health          Pinger
}

// NewHandlerManager wires handlers to services. health may be nil.
func NewHandlerManager(serviceManager *services.ServiceManager, logger utils.Logger, health Pinger) *HandlerManager {
	return &HandlerManager{
		progressHandler: NewProgressHandler(serviceManager.NextLesson, serviceManager.Trend, serviceManager.QuizStats, logger),
		creatorHandler:  NewCreatorHandler(serviceManager.CreatorStats, serviceManager.QuizStats, serviceManager.Export, logger),
		health:          health,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		students := v1.Group("/students/:student_id")
		{
			students.GET("/next-lesson", hm.progressHandler.GetNextLesson)
			students.GET("/trends/:metric", hm.progressHandler.GetMonthlyTrend)
			students.GET("/quiz-stats", hm.progressHandler.GetQuizStats)
		}

		creators := v1.Group("/creators")
		{
			creators.GET("/stats", hm.creatorHandler.GetCreatorStats)
			creators.GET("/stats/export", hm.creatorHandler.ExportCreatorStats)
			creators.GET("/quiz-accuracy", hm.creatorHandler.GetQuizAccuracy)
		}
	}
}

func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if hm.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hm.health.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": serviceName,
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
