package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// JourneyService is the sole read/write path to the journey store. Reads
// are cache-first and return a tagged result so "never tracked" and "store
// failed" stay distinguishable; writes go through the store and refresh the
// cache for the affected fingerprint.
type JourneyService struct {
	store  sessions.JourneyStore
	cache  interfaces.Cache
	logger *logging.ChanneledLogger
}

// NewJourneyService creates the journey accessor.
func NewJourneyService(store sessions.JourneyStore, cache interfaces.Cache, logger *logging.ChanneledLogger) *JourneyService {
	return &JourneyService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// GetJourney fetches the ordered session timeline for a fingerprint.
// Not-found is a valid outcome, not an error; transport failures surface as
// JourneyError so callers can apply their own retry policy.
func (s *JourneyService) GetJourney(ctx context.Context, fingerprintID string) sessions.JourneyResult {
	start := time.Now()

	if cached, found := s.cache.GetJourney(fingerprintID); found {
		s.logger.Journey().Debug("Journey served from cache", "fingerprintId", fingerprintID, "sessions", cached.SessionCount(), "duration", time.Since(start))
		return sessions.JourneyResult{Status: sessions.JourneyFound, Journey: cached}
	}

	journey, err := s.store.FindByFingerprintID(ctx, fingerprintID)
	if err != nil {
		s.logger.Journey().Error("Journey fetch failed", "fingerprintId", fingerprintID, "error", err.Error(), "duration", time.Since(start))
		return sessions.JourneyResult{Status: sessions.JourneyError, Err: err}
	}
	if journey == nil {
		s.logger.Journey().Debug("Journey not found", "fingerprintId", fingerprintID, "duration", time.Since(start))
		return sessions.JourneyResult{Status: sessions.JourneyNotFound}
	}

	// Restore the chronological invariant regardless of store ordering.
	journey = sessions.NewUserJourney(journey.FingerprintID, journey.Sessions)
	s.cache.SetJourney(journey)

	s.logger.Journey().Info("Journey loaded", "fingerprintId", fingerprintID, "sessions", journey.SessionCount(), "duration", time.Since(start))
	return sessions.JourneyResult{Status: sessions.JourneyFound, Journey: journey}
}

// UpdateJourney pushes a new or updated session record and receives the
// authoritative recomputed journey. The journey cache entry is refreshed
// and derived results for the fingerprint are invalidated. Write failures
// propagate; swallowing them would leave visible state diverging from the
// store.
func (s *JourneyService) UpdateJourney(ctx context.Context, session sessions.SessionRecord) (*sessions.UserJourney, error) {
	start := time.Now()

	journey, err := s.store.Upsert(ctx, session)
	if err != nil {
		s.logger.Journey().Error("Journey update failed", "fingerprintId", session.FingerprintID, "sessionId", session.ID, "error", err.Error(), "duration", time.Since(start))
		return nil, fmt.Errorf("journey update for %s: %w", session.FingerprintID, err)
	}

	journey = sessions.NewUserJourney(journey.FingerprintID, journey.Sessions)

	// Invalidate derived results first, then install the fresh journey.
	s.cache.InvalidateFingerprint(session.FingerprintID)
	s.cache.SetJourney(journey)

	s.logger.Journey().Info("Journey updated", "fingerprintId", session.FingerprintID, "sessionId", session.ID, "sessions", journey.SessionCount(), "duration", time.Since(start))
	return journey, nil
}
