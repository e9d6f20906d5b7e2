package services

import (
	"fmt"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// Per-transition anomaly confidences. Device switches are common enough to
// stay medium severity; a country switch between consecutive sessions is a
// stronger signal.
const (
	deviceChangeConfidence   = 0.8
	locationChangeConfidence = 0.9
)

// AnomalyService scans a journey for flagged transitions between
// consecutive sessions. Pure computation, journey order preserved.
type AnomalyService struct{}

// NewAnomalyService creates the anomaly detector.
func NewAnomalyService() *AnomalyService {
	return &AnomalyService{}
}

// DetectAnomalies walks consecutive session pairs chronologically. Device
// and location checks are independent, so one transition can emit both.
// Each anomaly is stamped with the later session's start time.
func (s *AnomalyService) DetectAnomalies(journey *sessions.UserJourney) []insights.Anomaly {
	records := journey.Sessions
	anomalies := make([]insights.Anomaly, 0)

	for i := 1; i < len(records); i++ {
		prev, curr := records[i-1], records[i]

		if prev.Device.Type != curr.Device.Type {
			anomalies = append(anomalies, insights.Anomaly{
				Timestamp:   curr.StartTime,
				Type:        insights.AnomalyDeviceChange,
				Severity:    insights.SeverityMedium,
				Description: fmt.Sprintf("Device type changed from %s to %s", prev.Device.Type, curr.Device.Type),
				Confidence:  deviceChangeConfidence,
			})
		}

		if prev.Location.Country != "" && curr.Location.Country != "" && prev.Location.Country != curr.Location.Country {
			anomalies = append(anomalies, insights.Anomaly{
				Timestamp:   curr.StartTime,
				Type:        insights.AnomalyLocationChange,
				Severity:    insights.SeverityHigh,
				Description: fmt.Sprintf("Country changed from %s to %s", prev.Location.Country, curr.Location.Country),
				Confidence:  locationChangeConfidence,
			})
		}
	}

	return anomalies
}
