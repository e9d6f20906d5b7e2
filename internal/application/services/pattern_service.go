package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// Visit-frequency boundaries, in days of mean interval between sessions.
const (
	dailyMaxMeanDays   = 1.5
	weeklyMaxMeanDays  = 8
	monthlyMaxMeanDays = 32
)

// A time slot is preferred when it holds more than this share of sessions.
const preferredSlotShare = 0.2

// Duration trend threshold: last-3 mean must move more than 20% against
// the first-3 mean to register as a trend.
const durationTrendDelta = 0.2

// PatternService derives the statistical behavioral profile from a journey.
// Pure computation; callers guarantee the journey holds at least two sessions.
type PatternService struct{}

// NewPatternService creates the pattern analyzer.
func NewPatternService() *PatternService {
	return &PatternService{}
}

// AnalyzePattern computes visit frequency, preferred time slots, duration
// trend, and device/location consistency for the journey.
func (s *PatternService) AnalyzePattern(journey *sessions.UserJourney) *insights.UserPattern {
	records := journey.Sessions

	return &insights.UserPattern{
		VisitFrequency:       s.classifyFrequency(records),
		PreferredTimeSlots:   s.preferredTimeSlots(records),
		SessionDurationTrend: s.durationTrend(records),
		PageDepthTrend:       insights.TrendMetric{}, // page-depth telemetry not yet captured
		DeviceConsistency:    s.deviceConsistency(records),
		LocationConsistency:  s.locationConsistency(records),
	}
}

// classifyFrequency buckets the mean consecutive start-time gap.
func (s *PatternService) classifyFrequency(records []sessions.SessionRecord) insights.VisitFrequency {
	if len(records) < 2 {
		return insights.FrequencyIrregular
	}

	var total time.Duration
	for i := 1; i < len(records); i++ {
		total += records[i].StartTime.Sub(records[i-1].StartTime)
	}
	meanDays := total.Hours() / 24 / float64(len(records)-1)

	switch {
	case meanDays <= dailyMaxMeanDays:
		return insights.FrequencyDaily
	case meanDays <= weeklyMaxMeanDays:
		return insights.FrequencyWeekly
	case meanDays <= monthlyMaxMeanDays:
		return insights.FrequencyMonthly
	default:
		return insights.FrequencyIrregular
	}
}

// preferredTimeSlots buckets sessions by hour-of-day and keeps the hours
// holding more than 20% of all sessions, in ascending hour order.
func (s *PatternService) preferredTimeSlots(records []sessions.SessionRecord) []string {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.StartTime.Hour()]++
	}

	threshold := preferredSlotShare * float64(len(records))
	slots := make([]string, 0)
	for hour := 0; hour < 24; hour++ {
		if float64(counts[hour]) > threshold {
			slots = append(slots, fmt.Sprintf("%d:00-%d:00", hour, hour+1))
		}
	}
	return slots
}

// durationTrend compares the mean duration of the last three sessions
// against the first three. Sessions without a recorded duration count as 0.
func (s *PatternService) durationTrend(records []sessions.SessionRecord) insights.Trend {
	if len(records) < 3 {
		return insights.TrendStable
	}

	first := meanDurationSeconds(records[:3])
	last := meanDurationSeconds(records[len(records)-3:])

	switch {
	case last > first*(1+durationTrendDelta):
		return insights.TrendIncreasing
	case last < first*(1-durationTrendDelta):
		return insights.TrendDecreasing
	default:
		return insights.TrendStable
	}
}

func meanDurationSeconds(records []sessions.SessionRecord) float64 {
	var total float64
	for _, r := range records {
		if r.Duration != nil {
			total += r.Duration.Seconds()
		}
	}
	return total / float64(len(records))
}

// deviceConsistency is 1 when every session used one device type and decays
// toward 0 as the journey spreads across types.
func (s *PatternService) deviceConsistency(records []sessions.SessionRecord) float64 {
	types := make(map[sessions.DeviceType]bool)
	for _, r := range records {
		types[r.Device.Type] = true
	}

	denom := len(records) - 1
	if denom < 1 {
		denom = 1
	}
	return 1 - float64(len(types)-1)/float64(denom)
}

// locationConsistency applies the same formula over distinct known
// countries. A journey with no location data is consistent by definition.
func (s *PatternService) locationConsistency(records []sessions.SessionRecord) float64 {
	countries := make(map[string]bool)
	for _, r := range records {
		if r.Location.Country != "" {
			countries[r.Location.Country] = true
		}
	}

	if len(countries) == 0 {
		return 1
	}

	denom := len(records) - 1
	if denom < 1 {
		denom = 1
	}
	return 1 - float64(len(countries)-1)/float64(denom)
}
