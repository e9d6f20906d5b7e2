package sessions

import (
	"context"
	"log/slog"
	"testing"
	"time"

	domain "github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLJourneyStore {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.Level(12),
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewSQLJourneyStore(db, logger)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func testRecord(id, fingerprintID string, start time.Time) domain.SessionRecord {
	d := 10 * time.Minute
	return domain.SessionRecord{
		ID:            id,
		FingerprintID: fingerprintID,
		StartTime:     start,
		Duration:      &d,
		Device:        domain.DeviceInfo{Type: domain.DeviceDesktop, OS: "linux", Browser: "firefox"},
		Location:      domain.GeoLocation{Country: "US", Region: "OR", City: "Portland"},
		RiskScore:     0.2,
	}
}

func TestFindByFingerprintIDUnknownIsNilNil(t *testing.T) {
	store := newTestStore(t)

	journey, err := store.FindByFingerprintID(context.Background(), "fp-ghost")
	assert.NoError(t, err)
	assert.Nil(t, journey)
}

func TestUpsertAndFindRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	journey, err := store.Upsert(ctx, testRecord("s-1", "fp-1", base))
	require.NoError(t, err)
	require.Equal(t, 1, journey.SessionCount())

	got := journey.Sessions[0]
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, "fp-1", got.FingerprintID)
	assert.True(t, got.StartTime.Equal(base))
	require.NotNil(t, got.Duration)
	assert.Equal(t, 10*time.Minute, *got.Duration)
	assert.Equal(t, domain.DeviceDesktop, got.Device.Type)
	assert.Equal(t, "US", got.Location.Country)
	assert.Equal(t, 0.2, got.RiskScore)
	assert.False(t, got.IsBot)
}

func TestUpsertReplacesExistingSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Upsert(ctx, testRecord("s-1", "fp-1", base))
	require.NoError(t, err)

	updated := testRecord("s-1", "fp-1", base)
	updated.IsBot = true
	updated.Duration = nil
	journey, err := store.Upsert(ctx, updated)
	require.NoError(t, err)

	require.Equal(t, 1, journey.SessionCount())
	assert.True(t, journey.Sessions[0].IsBot)
	assert.Nil(t, journey.Sessions[0].Duration)
}

func TestFindOrdersByStartTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Upsert(ctx, testRecord("s-late", "fp-1", base.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecord("s-early", "fp-1", base))
	require.NoError(t, err)

	journey, err := store.FindByFingerprintID(ctx, "fp-1")
	require.NoError(t, err)
	require.Equal(t, 2, journey.SessionCount())
	assert.Equal(t, "s-early", journey.Sessions[0].ID)
	assert.Equal(t, "s-late", journey.Sessions[1].ID)
}

func TestListFingerprints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Upsert(ctx, testRecord("s-1", "fp-1", base))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecord("s-2", "fp-1", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecord("s-3", "fp-2", base))
	require.NoError(t, err)

	fingerprints, err := store.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fp-1", "fp-2"}, fingerprints)
}
