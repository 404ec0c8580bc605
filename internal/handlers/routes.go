package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expense-categorizer-api/internal/metrics"
	"expense-categorizer-api/internal/middleware"
	"expense-categorizer-api/internal/services"
)

// Service identity reported by the health endpoint
const (
	ServiceName    = "expense-categorizer-api"
	ServiceVersion = "1.0.0"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	CategorizationService services.CategorizationService
	MaxBodyBytes          int64
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	analyzeHandler := NewAnalyzeHandler(config.CategorizationService, config.MaxBodyBytes)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   ServiceName,
			"version":   ServiceVersion,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.Any("/api/analyze", analyzeHandler.Analyze)
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, maxBodyBytes int64) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	if maxBodyBytes > 0 {
		router.Use(middleware.RequestSizeLimit(maxBodyBytes))
	}
}

// NewRouter builds a gin engine with the standard middleware and routes
func NewRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, config.MaxBodyBytes)
	SetupRoutes(router, config)
	return router
}
