package sessions

import (
	"context"
	"sort"
	"time"

	domain "github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// Interface assertion against the domain contract.
var _ domain.CorrelationSource = (*SQLCorrelationSource)(nil)

// Scorer computes the behavioral similarity of two session records.
// Satisfied by the application-layer similarity service.
type Scorer interface {
	ComputeSimilarity(a, b domain.SessionRecord) float64
}

// SQLCorrelationSource implements the correlation contract over the local
// store by scoring the most recent session of every known fingerprint
// against the query fingerprints. It mirrors what the production
// correlation service does remotely, at local-store scale.
type SQLCorrelationSource struct {
	store  *SQLJourneyStore
	scorer Scorer
	logger *logging.ChanneledLogger
}

// NewSQLCorrelationSource creates a local correlation source.
func NewSQLCorrelationSource(store *SQLJourneyStore, scorer Scorer, logger *logging.ChanneledLogger) *SQLCorrelationSource {
	return &SQLCorrelationSource{
		store:  store,
		scorer: scorer,
		logger: logger,
	}
}

// Correlate scores candidate fingerprints against the requested ones and
// returns pairs meeting the confidence floor, strongest first.
func (s *SQLCorrelationSource) Correlate(ctx context.Context, req domain.CorrelateRequest) ([]domain.SessionCorrelation, error) {
	start := time.Now()

	candidates, err := s.store.ListFingerprints(ctx)
	if err != nil {
		return nil, err
	}

	queried := make(map[string]bool, len(req.FingerprintIDs))
	for _, id := range req.FingerprintIDs {
		queried[id] = true
	}

	correlations := make([]domain.SessionCorrelation, 0)
	for _, queryID := range req.FingerprintIDs {
		anchor, err := s.latestSession(ctx, queryID)
		if err != nil {
			return nil, err
		}
		if anchor == nil {
			continue
		}

		for _, candidateID := range candidates {
			if queried[candidateID] {
				continue
			}
			candidate, err := s.latestSession(ctx, candidateID)
			if err != nil {
				return nil, err
			}
			if candidate == nil {
				continue
			}

			confidence := s.scorer.ComputeSimilarity(*anchor, *candidate)
			if confidence < req.MinConfidence {
				continue
			}
			correlations = append(correlations, domain.SessionCorrelation{
				FingerprintIDs: []string{queryID, candidateID},
				Confidence:     confidence,
				Method:         "behavioral_similarity",
			})
		}
	}

	sort.SliceStable(correlations, func(i, j int) bool {
		return correlations[i].Confidence > correlations[j].Confidence
	})
	if req.MaxResults > 0 && len(correlations) > req.MaxResults {
		correlations = correlations[:req.MaxResults]
	}

	s.logger.Correlation().Debug("Local correlation scan completed",
		"queried", len(req.FingerprintIDs), "candidates", len(candidates), "matches", len(correlations), "duration", time.Since(start))
	return correlations, nil
}

func (s *SQLCorrelationSource) latestSession(ctx context.Context, fingerprintID string) (*domain.SessionRecord, error) {
	journey, err := s.store.FindByFingerprintID(ctx, fingerprintID)
	if err != nil {
		return nil, err
	}
	if journey == nil || journey.SessionCount() == 0 {
		return nil, nil
	}
	latest := journey.Sessions[journey.SessionCount()-1]
	return &latest, nil
}
