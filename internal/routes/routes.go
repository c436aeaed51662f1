package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskforge/internal/handlers"
	"taskforge/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	signingKey []byte,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	commentHandler *handlers.CommentHandler,
	fileHandler *handlers.FileHandler,
	analyticsHandler *handlers.AnalyticsHandler,
) *gin.Engine {

	// ---- public
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- protected
	r.Use(middleware.AuthMiddleware(signingKey))

	r.GET("/auth/me", authHandler.Me)

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.POST("/bulk", taskHandler.BulkCreate)
		tasks.GET("/", taskHandler.List)
		// статический /export имеет приоритет над /:id
		tasks.GET("/export", taskHandler.Export)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	// COMMENTS
	comments := r.Group("/comments")
	{
		comments.POST("/task/:id", commentHandler.Add)
		comments.GET("/task/:id", commentHandler.ListForTask)
		comments.PUT("/:id", commentHandler.Update)
		comments.DELETE("/:id", commentHandler.Delete)
	}

	// FILES
	files := r.Group("/files")
	{
		files.POST("/task/:id", fileHandler.Upload)
		files.GET("/task/:id", fileHandler.ListForTask)
		files.GET("/:id", fileHandler.Download)
		files.DELETE("/:id", fileHandler.Delete)
	}

	// ANALYTICS
	analytics := r.Group("/analytics")
	{
		analytics.GET("/overview", analyticsHandler.Overview)
		analytics.GET("/user-performance", analyticsHandler.UserPerformance)
		analytics.GET("/trends", analyticsHandler.Trends)
		analytics.GET("/completion-trends", analyticsHandler.CompletionTrends)
		analytics.GET("/report", analyticsHandler.Report)
	}

	return r
}
