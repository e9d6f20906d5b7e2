package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserJourneyRestoresChronologicalOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []SessionRecord{
		{ID: "s-3", StartTime: base.Add(48 * time.Hour)},
		{ID: "s-1", StartTime: base},
		{ID: "s-2", StartTime: base.Add(24 * time.Hour)},
	}

	journey := NewUserJourney("fp-1", records)

	assert.Equal(t, "fp-1", journey.FingerprintID)
	assert.Equal(t, 3, journey.SessionCount())
	assert.Equal(t, []string{"s-1", "s-2", "s-3"}, []string{
		journey.Sessions[0].ID, journey.Sessions[1].ID, journey.Sessions[2].ID,
	})

	// The input slice must stay untouched.
	assert.Equal(t, "s-3", records[0].ID)
}

func TestNewUserJourneyKeepsEqualTimestampsStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []SessionRecord{
		{ID: "s-a", StartTime: base},
		{ID: "s-b", StartTime: base},
	}

	journey := NewUserJourney("fp-1", records)
	assert.Equal(t, "s-a", journey.Sessions[0].ID)
	assert.Equal(t, "s-b", journey.Sessions[1].ID)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-0.5))
	assert.Equal(t, 0.0, ClampScore(0))
	assert.Equal(t, 0.42, ClampScore(0.42))
	assert.Equal(t, 1.0, ClampScore(1))
	assert.Equal(t, 1.0, ClampScore(1.7))
}
