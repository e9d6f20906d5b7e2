package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/application/services"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// JourneyHandlers contains the journey read/write HTTP handlers
type JourneyHandlers struct {
	journeyService *services.JourneyService
	logger         *logging.ChanneledLogger
}

// NewJourneyHandlers creates journey handlers with injected dependencies
func NewJourneyHandlers(journeyService *services.JourneyService, logger *logging.ChanneledLogger) *JourneyHandlers {
	return &JourneyHandlers{
		journeyService: journeyService,
		logger:         logger,
	}
}

// UpdateJourneyRequest represents the body of a journey update
type UpdateJourneyRequest struct {
	Session sessions.SessionRecord `json:"session" binding:"required"`
}

// GetJourney handles GET /api/v1/journeys/:fingerprintId
// Never-tracked fingerprints map to 404; transport failures to 502.
func (h *JourneyHandlers) GetJourney(c *gin.Context) {
	fingerprintID := c.Param("fingerprintId")
	if fingerprintID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fingerprintId is required"})
		return
	}

	res := h.journeyService.GetJourney(c.Request.Context(), fingerprintID)
	switch res.Status {
	case sessions.JourneyFound:
		c.JSON(http.StatusOK, res.Journey)
	case sessions.JourneyNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "no journey for fingerprint"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "session store unavailable"})
	}
}

// UpdateJourney handles POST /api/v1/journeys
func (h *JourneyHandlers) UpdateJourney(c *gin.Context) {
	start := time.Now()

	var req UpdateJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Session.ID == "" || req.Session.FingerprintID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id and fingerprintId are required"})
		return
	}

	journey, err := h.journeyService.UpdateJourney(c.Request.Context(), req.Session)
	if err != nil {
		h.logger.Journey().Error("Journey update request failed", "fingerprintId", req.Session.FingerprintID, "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusBadGateway, gin.H{"error": "session store unavailable"})
		return
	}

	c.JSON(http.StatusOK, journey)
}
