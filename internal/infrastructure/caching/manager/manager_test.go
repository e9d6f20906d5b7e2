package manager

import (
	"testing"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		JourneyCapacity:     16,
		CorrelationCapacity: 16,
		InsightCapacity:     16,
		JourneyTTL:          time.Minute,
		CorrelationTTL:      time.Minute,
		InsightTTL:          time.Minute,
	}
}

func seedAllStores(m *Manager, fingerprintID string) {
	m.SetJourney(sessions.NewUserJourney(fingerprintID, nil))
	m.SetCorrelations(fingerprintID, []sessions.SessionCorrelation{{
		FingerprintIDs: []string{fingerprintID, "fp-other"},
		Confidence:     0.9,
	}})
	m.SetInsights(&insights.CrossSessionInsights{FingerprintID: fingerprintID, ComputedAt: time.Now().UTC()})
}

func TestManagerStoresAreIndependent(t *testing.T) {
	m := NewManager(testOptions(), nil)
	seedAllStores(m, "fp-1")

	m.InvalidateCorrelations("fp-1")

	_, found := m.GetCorrelations("fp-1")
	assert.False(t, found)
	_, found = m.GetJourney("fp-1")
	assert.True(t, found)
	_, found = m.GetInsights("fp-1")
	assert.True(t, found)
}

func TestInvalidateFingerprintSweepsEveryStore(t *testing.T) {
	m := NewManager(testOptions(), nil)
	seedAllStores(m, "fp-1")
	seedAllStores(m, "fp-2")

	m.InvalidateFingerprint("fp-1")

	_, found := m.GetJourney("fp-1")
	assert.False(t, found)
	_, found = m.GetCorrelations("fp-1")
	assert.False(t, found)
	_, found = m.GetInsights("fp-1")
	assert.False(t, found)

	// Other fingerprints are untouched.
	_, found = m.GetJourney("fp-2")
	assert.True(t, found)
}

func TestEntryCounts(t *testing.T) {
	m := NewManager(testOptions(), nil)
	seedAllStores(m, "fp-1")
	m.SetJourney(sessions.NewUserJourney("fp-2", nil))

	journeys, correlations, insightEntries := m.EntryCounts()
	assert.Equal(t, 2, journeys)
	assert.Equal(t, 1, correlations)
	assert.Equal(t, 1, insightEntries)
}

func TestPurgeExpiredSumsAcrossStores(t *testing.T) {
	opts := testOptions()
	opts.JourneyTTL = 10 * time.Millisecond
	opts.CorrelationTTL = 10 * time.Millisecond
	opts.InsightTTL = time.Minute
	m := NewManager(opts, nil)

	seedAllStores(m, "fp-1")
	time.Sleep(25 * time.Millisecond)

	require.Equal(t, 2, m.PurgeExpired())
	_, found := m.GetInsights("fp-1")
	assert.True(t, found)
}
