package services

import (
	"testing"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/stretchr/testify/assert"
)

func sessionAt(start time.Time, device sessions.DeviceType, os, browser, country string) sessions.SessionRecord {
	return sessions.SessionRecord{
		ID:            "s-" + start.Format("20060102150405"),
		FingerprintID: "fp-test",
		StartTime:     start,
		Device: sessions.DeviceInfo{
			Type:    device,
			OS:      os,
			Browser: browser,
		},
		Location: sessions.GeoLocation{Country: country},
	}
}

func TestComputeSimilarityIdenticalSessions(t *testing.T) {
	svc := NewSimilarityService()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	a := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "US")
	b := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "US")

	assert.Equal(t, 1.0, svc.ComputeSimilarity(a, b))
}

func TestComputeSimilarityNothingMatches(t *testing.T) {
	svc := NewSimilarityService()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	a := sessionAt(now, sessions.DevicePhone, "ios", "safari", "US")
	b := sessionAt(now.Add(30*24*time.Hour), sessions.DeviceDesktop, "linux", "firefox", "DE")

	assert.Equal(t, 0.0, svc.ComputeSimilarity(a, b))
}

func TestComputeSimilarityIsSymmetric(t *testing.T) {
	svc := NewSimilarityService()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	a := sessionAt(now, sessions.DevicePhone, "ios", "safari", "US")
	b := sessionAt(now.Add(3*24*time.Hour), sessions.DevicePhone, "android", "chrome", "US")

	assert.Equal(t, svc.ComputeSimilarity(a, b), svc.ComputeSimilarity(b, a))
}

func TestComputeSimilarityCountryOnlyAppliesWhenBothKnown(t *testing.T) {
	svc := NewSimilarityService()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	withCountry := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "US")
	withoutCountry := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "")

	// Everything applicable matches, so the missing country must not drag
	// the score below the maximum.
	assert.Equal(t, 1.0, svc.ComputeSimilarity(withCountry, withoutCountry))
}

func TestComputeSimilarityCountryMismatchCounts(t *testing.T) {
	svc := NewSimilarityService()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	a := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "US")
	b := sessionAt(now, sessions.DeviceDesktop, "linux", "firefox", "DE")

	// 0.9 matched over 1.0 applicable.
	assert.InDelta(t, 0.9, svc.ComputeSimilarity(a, b), 1e-9)
}

func TestComputeSimilarityTemporalBuckets(t *testing.T) {
	svc := NewSimilarityService()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	a := sessionAt(base, sessions.DeviceDesktop, "linux", "firefox", "")

	tests := []struct {
		name string
		gap  time.Duration
		want float64
	}{
		{"under one day scores full weight", 12 * time.Hour, 1.0},
		{"under seven days scores half weight", 3 * 24 * time.Hour, 0.8 / 0.9},
		{"seven days or more scores nothing", 10 * 24 * time.Hour, 0.7 / 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sessionAt(base.Add(tt.gap), sessions.DeviceDesktop, "linux", "firefox", "")
			assert.InDelta(t, tt.want, svc.ComputeSimilarity(a, b), 1e-9)
		})
	}
}
