// Package cleanup provides the background cache eviction worker.
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// Worker sweeps TTL-expired cache entries on a fixed interval. LRU capacity
// eviction happens inline on writes; this worker only reclaims entries that
// expired without being touched.
type Worker struct {
	cache  *manager.Manager
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache *manager.Manager, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

// performCleanup sweeps every store and reports what was reclaimed.
func (w *Worker) performCleanup() {
	start := time.Now()

	purged := w.cache.PurgeExpired()
	duration := time.Since(start)

	if purged > 0 {
		w.logger.Cache().Info("Cache cleanup finished", "purged", purged, "duration", duration)
	} else if w.config.VerboseReporting {
		journeys, correlations, insightEntries := w.cache.EntryCounts()
		w.logger.Cache().Debug("Cache cleanup completed - no expired entries",
			"journeys", journeys, "correlations", correlations, "insights", insightEntries, "duration", duration)
	}
}
