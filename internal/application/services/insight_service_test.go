package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsightFixture(t *testing.T, store *fakeJourneyStore, sink AlertSink) (*InsightService, *manager.Manager) {
	t.Helper()
	logger := newTestLogger(t)
	cache := newTestCache(t)
	journeys := NewJourneyService(store, cache, logger)
	svc := NewInsightService(journeys, NewPatternService(), NewAnomalyService(), NewRiskService(), cache, sink, logger)
	return svc, cache
}

func seedJourney(store *fakeJourneyStore, fingerprintID string, records []sessions.SessionRecord) {
	store.journeys[fingerprintID] = records
}

func steadyRecords(base time.Time, count int) []sessions.SessionRecord {
	records := make([]sessions.SessionRecord, count)
	for i := range records {
		records[i] = sessionAt(base.Add(time.Duration(i)*24*time.Hour), sessions.DeviceDesktop, "linux", "firefox", "US")
	}
	return records
}

func TestAnalyzeUnknownFingerprintYieldsNothing(t *testing.T) {
	svc, _ := newInsightFixture(t, newFakeJourneyStore(), nil)

	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-ghost")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeSingleSessionYieldsNothing(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedJourney(store, "fp-1", steadyRecords(base, 1))
	svc, _ := newInsightFixture(t, store, nil)

	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeStoreFailurePropagates(t *testing.T) {
	store := newFakeJourneyStore()
	store.findErr = errors.New("connection refused")
	svc, _ := newInsightFixture(t, store, nil)

	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeComputesFullReport(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedJourney(store, "fp-1", steadyRecords(base, 4))
	svc, _ := newInsightFixture(t, store, nil)

	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "fp-1", result.FingerprintID)
	require.NotNil(t, result.Pattern)
	assert.Equal(t, insights.FrequencyDaily, result.Pattern.VisitFrequency)
	require.NotNil(t, result.Risk)
	assert.Equal(t, insights.RiskLow, result.Risk.OverallRisk)
	require.NotNil(t, result.Anomalies)
	assert.Empty(t, result.Anomalies)
	require.NotNil(t, result.Evolution)
	assert.False(t, result.Evolution.TypingCadenceShift.Computed)
	assert.False(t, result.ComputedAt.IsZero())
}

func TestAnalyzeIsIdempotentForUnchangedJourney(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := steadyRecords(base, 4)
	records[1].Device = sessions.DeviceInfo{Type: sessions.DevicePhone, OS: "ios", Browser: "safari"}
	seedJourney(store, "fp-1", records)
	svc, cache := newInsightFixture(t, store, nil)

	first, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)

	// Recompute from scratch; only the computation timestamp may differ.
	cache.InvalidateInsights("fp-1")
	second, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)

	assert.Equal(t, first.Pattern, second.Pattern)
	assert.Equal(t, first.Anomalies, second.Anomalies)
	assert.Equal(t, first.Risk, second.Risk)
}

func TestAnalyzeServesCachedResult(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedJourney(store, "fp-1", steadyRecords(base, 3))
	svc, _ := newInsightFixture(t, store, nil)

	first, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)
	second, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.findCalls)
}

func TestAnalyzeHighRiskPublishesAlert(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// VPN signal plus three countries pushes the accumulator to 0.7.
	records := steadyRecords(base, 3)
	records[0].RiskScore = 0.9
	records[1].Location.Country = "DE"
	records[2].Location.Country = "JP"
	seedJourney(store, "fp-risky", records)

	sink := &captureSink{}
	svc, _ := newInsightFixture(t, store, sink)

	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-risky")
	require.NoError(t, err)
	require.Equal(t, insights.RiskHigh, result.Risk.OverallRisk)

	require.Len(t, sink.alerts, 1)
	alert := sink.alerts[0]
	assert.NotEmpty(t, alert.AlertID)
	assert.Equal(t, "fp-risky", alert.FingerprintID)
	assert.Equal(t, insights.RiskHigh, alert.OverallRisk)
	assert.InDelta(t, 0.7, alert.FraudRisk, 1e-9)
}

func TestAnalyzeLowRiskStaysQuiet(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedJourney(store, "fp-1", steadyRecords(base, 3))

	sink := &captureSink{}
	svc, _ := newInsightFixture(t, store, sink)

	_, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-1")
	require.NoError(t, err)
	assert.Empty(t, sink.alerts)
}

func TestJourneyUpdateInvalidatesInsights(t *testing.T) {
	store := newFakeJourneyStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedJourney(store, "fp-test", steadyRecords(base, 3))

	logger := newTestLogger(t)
	cache := newTestCache(t)
	journeys := NewJourneyService(store, cache, logger)
	svc := NewInsightService(journeys, NewPatternService(), NewAnomalyService(), NewRiskService(), cache, nil, logger)

	_, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-test")
	require.NoError(t, err)
	_, found := cache.GetInsights("fp-test")
	require.True(t, found)

	next := sessionAt(base.Add(96*time.Hour), sessions.DevicePhone, "ios", "safari", "US")
	next.ID = "s-new"
	_, err = journeys.UpdateJourney(context.Background(), next)
	require.NoError(t, err)

	_, found = cache.GetInsights("fp-test")
	assert.False(t, found)

	// The recomputed report reflects the new session.
	result, err := svc.AnalyzeCrossSessionInsights(context.Background(), "fp-test")
	require.NoError(t, err)
	assert.Len(t, result.Anomalies, 1)
}
