package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "job-board-service",
		})
	})

	boardHandler := handler.NewBoardHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		board := v1.Group("/board")
		{
			board.GET("", boardHandler.GetBoard)
			board.POST("/reload", boardHandler.Reload)
			board.PUT("/view", boardHandler.SetView)
			board.PUT("/mode", boardHandler.SetMode)
			board.POST("/select", boardHandler.SelectJob)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("", boardHandler.Search)
			jobs.PATCH("/:job_id/status", boardHandler.UpdateStatus)
			jobs.PATCH("/:job_id/notes", boardHandler.UpdateNotes)
			jobs.POST("/:job_id/select", boardHandler.ToggleSelection)
		}

		selection := v1.Group("/selection")
		{
			selection.POST("/all", boardHandler.SelectAllVisible)
			selection.POST("/clear", boardHandler.ClearSelections)
		}

		companies := v1.Group("/companies")
		{
			companies.GET("/:name", boardHandler.GetCompany)
			companies.PUT("/:name", boardHandler.SaveCompany)
			companies.POST("/:name/applications", boardHandler.AddApplication)
		}

		exports := v1.Group("/export")
		{
			exports.GET("/csv", boardHandler.ExportCSV)
			exports.GET("/session", boardHandler.ExportWorkflowState)
		}
	}

	return r
}
