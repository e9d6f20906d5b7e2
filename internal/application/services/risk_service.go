package services

import (
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// Risk accumulator weights and bucket thresholds. Fixed heuristics pending
// calibration against labeled abuse data.
const (
	vpnSignalWeight      = 0.3
	locationJumpWeight   = 0.4
	deviceChangeWeight   = 0.2
	highRiskThreshold    = 0.6
	mediumRiskThreshold  = 0.3
	vpnScoreCutoff       = 0.5
	botRiskFlagged       = 0.8
	botRiskBaseline      = 0.1
	sharingRiskFlagged   = 0.6
	sharingRiskBaseline  = 0.1
	locationJumpDistinct = 2
	deviceSpreadDistinct = 2
)

// RiskService rolls a journey's signals into one risk verdict.
// Pure computation over the whole journey.
type RiskService struct{}

// NewRiskService creates the risk assessor.
func NewRiskService() *RiskService {
	return &RiskService{}
}

// AssessRisk combines VPN, location-jump, and device-spread signals into an
// additive accumulator, then buckets it. BotRisk is a binary signal keyed on
// the upstream isBot flag, not part of the accumulator.
func (s *RiskService) AssessRisk(journey *sessions.UserJourney) *insights.RiskAssessment {
	records := journey.Sessions

	hasVPN := false
	hasBot := false
	countries := make(map[string]bool)
	deviceTypes := make(map[sessions.DeviceType]bool)

	for _, r := range records {
		if r.RiskScore > vpnScoreCutoff {
			hasVPN = true
		}
		if r.IsBot {
			hasBot = true
		}
		if r.Location.Country != "" {
			countries[r.Location.Country] = true
		}
		deviceTypes[r.Device.Type] = true
	}

	hasLocationJumps := len(records) > 1 && len(countries) > locationJumpDistinct
	hasDeviceChanges := len(deviceTypes) > deviceSpreadDistinct

	var accumulator float64
	if hasVPN {
		accumulator += vpnSignalWeight
	}
	if hasLocationJumps {
		accumulator += locationJumpWeight
	}
	if hasDeviceChanges {
		accumulator += deviceChangeWeight
	}

	overall := insights.RiskLow
	switch {
	case accumulator > highRiskThreshold:
		overall = insights.RiskHigh
	case accumulator > mediumRiskThreshold:
		overall = insights.RiskMedium
	}

	botRisk := botRiskBaseline
	if hasBot {
		botRisk = botRiskFlagged
	}

	sharingRisk := sharingRiskBaseline
	if hasDeviceChanges {
		sharingRisk = sharingRiskFlagged
	}

	return &insights.RiskAssessment{
		OverallRisk:        overall,
		FraudRisk:          sessions.ClampScore(accumulator),
		BotRisk:            botRisk,
		AccountSharingRisk: sharingRisk,
		VPNUsage:           hasVPN,
		ProxyUsage:         insights.BoolMetric{}, // no proxy-detection signal exists yet
	}
}
