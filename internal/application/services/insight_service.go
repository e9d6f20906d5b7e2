package services

import (
	"context"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/security"
)

// AlertSink receives high-risk verdicts for downstream consumers. Delivery
// is advisory; sink failures must never affect insight computation.
type AlertSink interface {
	PublishHighRisk(alert insights.RiskAlert)
}

// InsightService is the public entry point of the engine. It sequences
// journey fetch, pattern analysis, anomaly detection, and risk assessment
// into one cross-session report. The sub-analyzers are internal
// collaborators; embedders call this facade only.
type InsightService struct {
	journeys  *JourneyService
	patterns  *PatternService
	anomalies *AnomalyService
	risks     *RiskService
	cache     interfaces.Cache
	alerts    AlertSink
	logger    *logging.ChanneledLogger
}

// NewInsightService creates the insight orchestrator. alerts may be nil
// when no downstream sink is wired.
func NewInsightService(
	journeys *JourneyService,
	patterns *PatternService,
	anomalies *AnomalyService,
	risks *RiskService,
	cache interfaces.Cache,
	alerts AlertSink,
	logger *logging.ChanneledLogger,
) *InsightService {
	return &InsightService{
		journeys:  journeys,
		patterns:  patterns,
		anomalies: anomalies,
		risks:     risks,
		cache:     cache,
		alerts:    alerts,
		logger:    logger,
	}
}

// AnalyzeCrossSessionInsights computes the combined report for one
// fingerprint. A journey that was never tracked or holds fewer than two
// sessions yields (nil, nil): there is nothing to analyze, which is not an
// error. Store failures propagate. Results are idempotent for an unchanged
// journey and cached until a journey update or eviction invalidates them.
func (s *InsightService) AnalyzeCrossSessionInsights(ctx context.Context, fingerprintID string) (*insights.CrossSessionInsights, error) {
	start := time.Now()

	if cached, found := s.cache.GetInsights(fingerprintID); found {
		s.logger.Insights().Debug("Insights served from cache", "fingerprintId", fingerprintID, "duration", time.Since(start))
		return cached, nil
	}

	res := s.journeys.GetJourney(ctx, fingerprintID)
	switch res.Status {
	case sessions.JourneyError:
		return nil, res.Err
	case sessions.JourneyNotFound:
		s.logger.Insights().Debug("No journey for fingerprint - no insight", "fingerprintId", fingerprintID)
		return nil, nil
	}

	journey := res.Journey
	if journey.SessionCount() < 2 {
		s.logger.Insights().Debug("Journey too short for analysis", "fingerprintId", fingerprintID, "sessions", journey.SessionCount())
		return nil, nil
	}

	// Sequential stages; each pure analyzer reads the same journey snapshot.
	pattern := s.patterns.AnalyzePattern(journey)
	anomalies := s.anomalies.DetectAnomalies(journey)
	risk := s.risks.AssessRisk(journey)

	result := &insights.CrossSessionInsights{
		FingerprintID: fingerprintID,
		Pattern:       pattern,
		Evolution:     &insights.BehavioralEvolution{}, // behavioral telemetry not yet captured
		Anomalies:     anomalies,
		Risk:          risk,
		ComputedAt:    time.Now().UTC(),
	}

	s.cache.SetInsights(result)
	s.logger.Insights().Info("Cross-session insights computed",
		"fingerprintId", fingerprintID,
		"sessions", journey.SessionCount(),
		"anomalies", len(anomalies),
		"overallRisk", string(risk.OverallRisk),
		"duration", time.Since(start))

	if risk.OverallRisk == insights.RiskHigh && s.alerts != nil {
		s.alerts.PublishHighRisk(insights.RiskAlert{
			AlertID:       security.GenerateULID(),
			FingerprintID: fingerprintID,
			OverallRisk:   risk.OverallRisk,
			FraudRisk:     risk.FraudRisk,
			ComputedAt:    result.ComputedAt,
		})
	}

	return result, nil
}
