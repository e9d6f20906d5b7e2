// Package interfaces defines the cache contract consumed by the application
// services. Keeping the services on an interface allows per-test isolation
// with in-memory fakes instead of a process-wide singleton.
package interfaces

import (
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// Cache is the engine's in-process cache surface. All entries are keyed
// exactly by fingerprintId.
type Cache interface {
	GetJourney(fingerprintID string) (*sessions.UserJourney, bool)
	SetJourney(journey *sessions.UserJourney)
	InvalidateJourney(fingerprintID string)

	GetCorrelations(fingerprintID string) ([]sessions.SessionCorrelation, bool)
	SetCorrelations(fingerprintID string, correlations []sessions.SessionCorrelation)
	InvalidateCorrelations(fingerprintID string)

	GetInsights(fingerprintID string) (*insights.CrossSessionInsights, bool)
	SetInsights(result *insights.CrossSessionInsights)
	InvalidateInsights(fingerprintID string)

	// InvalidateFingerprint drops the fingerprint's entries from every store.
	InvalidateFingerprint(fingerprintID string)

	// PurgeExpired evicts TTL-expired entries and reports how many were removed.
	PurgeExpired() int
}
