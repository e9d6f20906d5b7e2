package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
)

// CorrelateOptions tune one correlation lookup. Zero values fall back to
// the configured defaults.
type CorrelateOptions struct {
	MinConfidence float64
	MaxResults    int
}

// CorrelationService finds sessions plausibly belonging to the same visitor
// as a given fingerprint. Lookups are memoized per fingerprint; a failing
// correlation service degrades to an empty result instead of breaking the
// caller, with the fallback surfaced on the lookup.
type CorrelationService struct {
	source sessions.CorrelationSource
	cache  interfaces.Cache
	logger *logging.ChanneledLogger
}

// NewCorrelationService creates the correlation engine.
func NewCorrelationService(source sessions.CorrelationSource, cache interfaces.Cache, logger *logging.ChanneledLogger) *CorrelationService {
	return &CorrelationService{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Correlate returns the confidence-filtered correlations for a fingerprint
// using a cache-first pattern. Transport failures are swallowed and logged;
// the returned lookup carries Degraded=true so callers can tell the
// fallback apart from a genuinely empty result. Degraded lookups are not
// cached, so the next call retries the remote service.
func (s *CorrelationService) Correlate(ctx context.Context, fingerprintID string, opts CorrelateOptions) sessions.CorrelationLookup {
	start := time.Now()

	if opts.MinConfidence <= 0 {
		opts.MinConfidence = config.MinCorrelationConfidence
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = config.MaxCorrelationResults
	}

	if cached, found := s.cache.GetCorrelations(fingerprintID); found {
		s.logger.Correlation().Debug("Correlation lookup served from cache", "fingerprintId", fingerprintID, "count", len(cached), "duration", time.Since(start))
		return sessions.CorrelationLookup{Correlations: cached}
	}

	results, err := s.source.Correlate(ctx, sessions.CorrelateRequest{
		FingerprintIDs: []string{fingerprintID},
		MinConfidence:  opts.MinConfidence,
		MaxResults:     opts.MaxResults,
	})
	if err != nil {
		s.logger.Correlation().Warn("Correlation lookup failed - degrading to empty result",
			"fingerprintId", fingerprintID, "error", err.Error(), "duration", time.Since(start))
		return sessions.CorrelationLookup{Correlations: []sessions.SessionCorrelation{}, Degraded: true}
	}

	filtered := make([]sessions.SessionCorrelation, 0, len(results))
	for _, c := range results {
		if len(filtered) >= opts.MaxResults {
			break
		}
		if c.Confidence < opts.MinConfidence {
			continue
		}
		c.Confidence = sessions.ClampScore(c.Confidence)
		filtered = append(filtered, c)
	}

	s.cache.SetCorrelations(fingerprintID, filtered)
	s.logger.Correlation().Info("Correlation lookup completed", "fingerprintId", fingerprintID, "count", len(filtered), "duration", time.Since(start))
	return sessions.CorrelationLookup{Correlations: filtered}
}
