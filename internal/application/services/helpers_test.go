package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/require"
)

// newTestLogger builds a silent channeled logger for tests.
func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.Level(12), // above error, drops everything
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

// newTestCache builds a small real cache manager for tests.
func newTestCache(t *testing.T) *manager.Manager {
	t.Helper()
	return manager.NewManager(manager.Options{
		JourneyCapacity:     64,
		CorrelationCapacity: 64,
		InsightCapacity:     64,
		JourneyTTL:          time.Minute,
		CorrelationTTL:      time.Minute,
		InsightTTL:          time.Minute,
	}, newTestLogger(t))
}

// fakeJourneyStore is an in-memory JourneyStore with injectable failures.
type fakeJourneyStore struct {
	journeys  map[string][]sessions.SessionRecord
	findErr   error
	upsertErr error
	findCalls int
}

func newFakeJourneyStore() *fakeJourneyStore {
	return &fakeJourneyStore{journeys: make(map[string][]sessions.SessionRecord)}
}

func (f *fakeJourneyStore) FindByFingerprintID(_ context.Context, fingerprintID string) (*sessions.UserJourney, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	records, ok := f.journeys[fingerprintID]
	if !ok {
		return nil, nil
	}
	return sessions.NewUserJourney(fingerprintID, records), nil
}

func (f *fakeJourneyStore) Upsert(_ context.Context, session sessions.SessionRecord) (*sessions.UserJourney, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	records := f.journeys[session.FingerprintID]
	replaced := false
	for i, r := range records {
		if r.ID == session.ID {
			records[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, session)
	}
	f.journeys[session.FingerprintID] = records
	return sessions.NewUserJourney(session.FingerprintID, records), nil
}

// fakeCorrelationSource returns canned correlations or a canned error.
type fakeCorrelationSource struct {
	results []sessions.SessionCorrelation
	err     error
	calls   int
}

func (f *fakeCorrelationSource) Correlate(_ context.Context, _ sessions.CorrelateRequest) ([]sessions.SessionCorrelation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// captureSink records published alerts.
type captureSink struct {
	alerts []insights.RiskAlert
}

func (s *captureSink) PublishHighRisk(alert insights.RiskAlert) {
	s.alerts = append(s.alerts, alert)
}
