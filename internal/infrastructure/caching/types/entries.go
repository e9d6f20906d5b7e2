// Package types defines the cache entry structures shared by the stores.
package types

import (
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// JourneyEntry caches one fingerprint's journey.
type JourneyEntry struct {
	FingerprintID string
	Journey       *sessions.UserJourney
	CachedAt      time.Time
}

// CorrelationEntry caches the filtered correlation list for one fingerprint.
// Degraded lookups are never cached; a cached entry is always authoritative.
type CorrelationEntry struct {
	FingerprintID string
	Correlations  []sessions.SessionCorrelation
	CachedAt      time.Time
}

// InsightEntry caches one fingerprint's computed cross-session insights.
type InsightEntry struct {
	FingerprintID string
	Insights      *insights.CrossSessionInsights
	CachedAt      time.Time
}
