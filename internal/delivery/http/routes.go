package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shelfaware/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/stores", handler.ListStores)
		v1.GET("/items", handler.ListItems)
		v1.GET("/recommendations", handler.GetRecommendations)
		v1.POST("/impact", handler.AnalyzeImpact)
		v1.GET("/categories", handler.GetCategories)
		v1.POST("/refresh", handler.RefreshSnapshot)

		export := v1.Group("/export")
		{
			export.GET("/recommendations", handler.ExportRecommendations)
		}
	}

	return router
}
