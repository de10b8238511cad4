package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/handlers"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/middleware"
	_ "github.com/sickboy0001/ZeSecThinkV2/docs"
)

// Dependencies 는 라우터가 쓰는 서비스 묶음이다. main 에서 명시적으로 조립한다.
type Dependencies struct {
	Posts      handlers.PostAPI
	Tags       handlers.TagAPI
	Prompts    handlers.PromptAPI
	Refinement handlers.RefinementAPI
	AILogs     handlers.AILogAPI
	Gemini     handlers.GeminiAPI
	Ping       func(ctx context.Context) error
}

func New(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", handlers.HealthHandler(deps.Ping))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1", middleware.RequireUser())
	{
		api.GET("/posts", handlers.ListPostsHandler(deps.Posts))
		api.GET("/posts/summary", handlers.DailySummaryHandler(deps.Posts))
		api.POST("/posts", handlers.CreatePostHandler(deps.Posts))
		api.PATCH("/posts/:id", handlers.UpdatePostHandler(deps.Posts))
		api.DELETE("/posts/:id", handlers.DeletePostHandler(deps.Posts))
		api.DELETE("/posts/:id/permanent", handlers.DeletePostPermanentlyHandler(deps.Posts))

		api.GET("/tags", handlers.ListTagsHandler(deps.Tags))
		api.GET("/tags/snapshot", handlers.TagSnapshotHandler(deps.Tags))
		api.POST("/tags", handlers.CreateTagHandler(deps.Tags))
		api.PUT("/tags/order", handlers.ReorderTagsHandler(deps.Tags))
		api.PATCH("/tags/:id", handlers.UpdateTagHandler(deps.Tags))
		api.DELETE("/tags/:id", handlers.DeleteTagHandler(deps.Tags))

		api.GET("/prompts/:slug", handlers.GetPromptHandler(deps.Prompts))
		api.GET("/prompts/:slug/history", handlers.PromptHistoryHandler(deps.Prompts))
		api.POST("/prompts/:slug", handlers.SavePromptHandler(deps.Prompts))

		api.POST("/refinement/batches", handlers.RunBatchHandler(deps.Refinement))
		api.POST("/refinement/batches/:id/apply", handlers.ApplyBatchHandler(deps.Refinement))
		api.GET("/refinement/batches", handlers.ListBatchesHandler(deps.AILogs))
		api.GET("/refinement/batches/:id/logs", handlers.ExecutionLogsHandler(deps.AILogs))
		api.GET("/refinement/batches/:id/histories", handlers.BatchHistoriesHandler(deps.AILogs))
		api.GET("/refinement/histories", handlers.PostHistoriesHandler(deps.AILogs))

		api.POST("/gemini", handlers.GeminiHandler(deps.Gemini))
	}

	return r
}
