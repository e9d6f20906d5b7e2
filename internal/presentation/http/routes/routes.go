// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/crosstrace-go/internal/application/container"
	"github.com/AtRiskMedia/crosstrace-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/crosstrace-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	insightHandlers := handlers.NewInsightHandlers(container.InsightService, container.Logger)
	journeyHandlers := handlers.NewJourneyHandlers(container.JourneyService, container.Logger)
	correlationHandlers := handlers.NewCorrelationHandlers(container.CorrelationService, container.Logger)
	alertHandlers := handlers.NewAlertHandlers(container.AlertBroadcaster, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.CacheManager)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.GET("/insights/:fingerprintId", insightHandlers.GetInsights)
		api.GET("/journeys/:fingerprintId", journeyHandlers.GetJourney)
		api.GET("/correlations/:fingerprintId", correlationHandlers.GetCorrelations)
		api.GET("/alerts/ws", alertHandlers.Subscribe)

		// Mutating routes require the service bearer token when configured.
		api.POST("/journeys", middleware.ServiceAuthMiddleware(), journeyHandlers.UpdateJourney)
	}

	return r
}
