package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/gin-gonic/gin"
)

// HealthHandlers contains the liveness handlers
type HealthHandlers struct {
	cache     *manager.Manager
	startedAt time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(cache *manager.Manager) *HealthHandlers {
	return &HealthHandlers{
		cache:     cache,
		startedAt: time.Now().UTC(),
	}
}

// GetHealth handles GET /api/v1/health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	journeys, correlations, insightEntries := h.cache.EntryCounts()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
		"cache": gin.H{
			"journeys":     journeys,
			"correlations": correlations,
			"insights":     insightEntries,
		},
	})
}
