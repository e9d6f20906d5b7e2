// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/application/services"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// InsightHandlers contains the cross-session insight HTTP handlers
type InsightHandlers struct {
	insightService *services.InsightService
	logger         *logging.ChanneledLogger
}

// NewInsightHandlers creates insight handlers with injected dependencies
func NewInsightHandlers(insightService *services.InsightService, logger *logging.ChanneledLogger) *InsightHandlers {
	return &InsightHandlers{
		insightService: insightService,
		logger:         logger,
	}
}

// GetInsights handles GET /api/v1/insights/:fingerprintId
// A fingerprint with no analyzable journey yields 204; store failures
// surface as 502 so the host platform can distinguish upstream trouble
// from a simple lack of data.
func (h *InsightHandlers) GetInsights(c *gin.Context) {
	start := time.Now()
	fingerprintID := c.Param("fingerprintId")
	if fingerprintID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fingerprintId is required"})
		return
	}

	result, err := h.insightService.AnalyzeCrossSessionInsights(c.Request.Context(), fingerprintID)
	if err != nil {
		h.logger.Insights().Error("Insight request failed", "fingerprintId", fingerprintID, "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusBadGateway, gin.H{"error": "session store unavailable"})
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, result)
}
