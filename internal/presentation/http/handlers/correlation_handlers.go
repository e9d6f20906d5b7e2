package handlers

import (
	"net/http"
	"strconv"

	"github.com/AtRiskMedia/crosstrace-go/internal/application/services"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// CorrelationHandlers contains the identity-correlation HTTP handlers
type CorrelationHandlers struct {
	correlationService *services.CorrelationService
	logger             *logging.ChanneledLogger
}

// NewCorrelationHandlers creates correlation handlers with injected dependencies
func NewCorrelationHandlers(correlationService *services.CorrelationService, logger *logging.ChanneledLogger) *CorrelationHandlers {
	return &CorrelationHandlers{
		correlationService: correlationService,
		logger:             logger,
	}
}

// GetCorrelations handles GET /api/v1/correlations/:fingerprintId
// The lookup never fails outward; when the correlation source is down the
// response carries an empty list with degraded=true.
func (h *CorrelationHandlers) GetCorrelations(c *gin.Context) {
	fingerprintID := c.Param("fingerprintId")
	if fingerprintID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fingerprintId is required"})
		return
	}

	opts := services.CorrelateOptions{}
	if raw := c.Query("minConfidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minConfidence must be between 0 and 1"})
			return
		}
		opts.MinConfidence = v
	}
	if raw := c.Query("maxResults"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxResults must be a positive integer"})
			return
		}
		opts.MaxResults = v
	}

	lookup := h.correlationService.Correlate(c.Request.Context(), fingerprintID, opts)
	c.JSON(http.StatusOK, lookup)
}
