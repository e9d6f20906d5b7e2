// Package manager provides the centralized cache facade wiring the journey,
// correlation, and insight stores behind one interface.
package manager

import (
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
)

// Interface assertion to ensure Manager implements the cache contract.
var _ interfaces.Cache = (*Manager)(nil)

// Manager owns the three bounded stores and the cross-store invalidation
// that keeps cached insights consistent with journey writes.
type Manager struct {
	journeys     *stores.JourneysStore
	correlations *stores.CorrelationsStore
	insights     *stores.InsightsStore
	logger       *logging.ChanneledLogger
}

// Options bound each store. Zero capacity means unbounded; zero TTL means
// entries never expire.
type Options struct {
	JourneyCapacity     int
	CorrelationCapacity int
	InsightCapacity     int
	JourneyTTL          time.Duration
	CorrelationTTL      time.Duration
	InsightTTL          time.Duration
}

// DefaultOptions reads the store bounds from the central config package.
func DefaultOptions() Options {
	return Options{
		JourneyCapacity:     config.JourneyCacheCapacity,
		CorrelationCapacity: config.CorrelationCacheCapacity,
		InsightCapacity:     config.InsightCacheCapacity,
		JourneyTTL:          config.JourneyCacheTTL,
		CorrelationTTL:      config.CorrelationCacheTTL,
		InsightTTL:          config.InsightCacheTTL,
	}
}

// NewManager creates the cache manager and its stores.
func NewManager(opts Options, logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager")
	}
	return &Manager{
		journeys:     stores.NewJourneysStore(opts.JourneyCapacity, opts.JourneyTTL, logger),
		correlations: stores.NewCorrelationsStore(opts.CorrelationCapacity, opts.CorrelationTTL, logger),
		insights:     stores.NewInsightsStore(opts.InsightCapacity, opts.InsightTTL, logger),
		logger:       logger,
	}
}

// GetJourney retrieves a cached journey.
func (m *Manager) GetJourney(fingerprintID string) (*sessions.UserJourney, bool) {
	return m.journeys.Get(fingerprintID)
}

// SetJourney stores a journey.
func (m *Manager) SetJourney(journey *sessions.UserJourney) {
	m.journeys.Set(journey)
}

// InvalidateJourney drops a cached journey.
func (m *Manager) InvalidateJourney(fingerprintID string) {
	m.journeys.Invalidate(fingerprintID)
}

// GetCorrelations retrieves cached correlations.
func (m *Manager) GetCorrelations(fingerprintID string) ([]sessions.SessionCorrelation, bool) {
	return m.correlations.Get(fingerprintID)
}

// SetCorrelations stores a correlation list.
func (m *Manager) SetCorrelations(fingerprintID string, correlations []sessions.SessionCorrelation) {
	m.correlations.Set(fingerprintID, correlations)
}

// InvalidateCorrelations drops cached correlations.
func (m *Manager) InvalidateCorrelations(fingerprintID string) {
	m.correlations.Invalidate(fingerprintID)
}

// GetInsights retrieves cached insights.
func (m *Manager) GetInsights(fingerprintID string) (*insights.CrossSessionInsights, bool) {
	return m.insights.Get(fingerprintID)
}

// SetInsights stores computed insights.
func (m *Manager) SetInsights(result *insights.CrossSessionInsights) {
	m.insights.Set(result)
}

// InvalidateInsights drops cached insights.
func (m *Manager) InvalidateInsights(fingerprintID string) {
	m.insights.Invalidate(fingerprintID)
}

// InvalidateFingerprint drops the fingerprint's entries from every store.
// Called on every journey write so derived results never outlive their input.
func (m *Manager) InvalidateFingerprint(fingerprintID string) {
	start := time.Now()
	m.journeys.Invalidate(fingerprintID)
	m.correlations.Invalidate(fingerprintID)
	m.insights.Invalidate(fingerprintID)
	if m.logger != nil {
		m.logger.Cache().Debug("Cache operation", "operation", "invalidate_fingerprint", "key", fingerprintID, "duration", time.Since(start))
	}
}

// PurgeExpired sweeps TTL-expired entries from every store.
func (m *Manager) PurgeExpired() int {
	purged := m.journeys.PurgeExpired()
	purged += m.correlations.PurgeExpired()
	purged += m.insights.PurgeExpired()
	return purged
}

// EntryCounts reports per-store entry counts for cleanup reporting.
func (m *Manager) EntryCounts() (journeys, correlations, insightEntries int) {
	return m.journeys.Len(), m.correlations.Len(), m.insights.Len()
}
