// Package insights defines the derived cross-session analysis entities:
// behavioral patterns, anomalies, and the combined risk verdict. Everything
// here is recomputed on demand from the current journey and cached per
// fingerprint until invalidated.
package insights

import "time"

// VisitFrequency buckets the mean gap between consecutive sessions.
type VisitFrequency string

const (
	FrequencyDaily     VisitFrequency = "daily"
	FrequencyWeekly    VisitFrequency = "weekly"
	FrequencyMonthly   VisitFrequency = "monthly"
	FrequencyIrregular VisitFrequency = "irregular"
)

// Trend describes the direction of a measured series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// TrendMetric is a trend that may not have been measured yet. Computed false
// means "never measured", which consumers must not read as stable.
type TrendMetric struct {
	Computed bool  `json:"computed"`
	Trend    Trend `json:"trend,omitempty"`
}

// BoolMetric is a boolean signal that may not have been measured yet.
type BoolMetric struct {
	Computed bool `json:"computed"`
	Value    bool `json:"value,omitempty"`
}

// UserPattern holds the statistical behavioral profile derived from a journey.
type UserPattern struct {
	VisitFrequency       VisitFrequency `json:"visitFrequency"`
	PreferredTimeSlots   []string       `json:"preferredTimeSlots"`
	SessionDurationTrend Trend          `json:"sessionDurationTrend"`
	PageDepthTrend       TrendMetric    `json:"pageDepthTrend"` // forward-extension point, not yet computed
	DeviceConsistency    float64        `json:"deviceConsistency"`
	LocationConsistency  float64        `json:"locationConsistency"`
}

// BehavioralEvolution is the extension point for future behavioral telemetry
// (typing cadence, navigation style). All fields stay unmeasured until the
// tracking layer captures the underlying signals.
type BehavioralEvolution struct {
	TypingCadenceShift   TrendMetric `json:"typingCadenceShift"`
	NavigationStyleShift TrendMetric `json:"navigationStyleShift"`
	EngagementShift      TrendMetric `json:"engagementShift"`
}

// AnomalyType classifies a flagged transition between consecutive sessions.
type AnomalyType string

const (
	AnomalyDeviceChange   AnomalyType = "device_change"
	AnomalyLocationChange AnomalyType = "location_change"
)

// Severity grades an anomaly.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is one flagged transition. Timestamp is the start time of the
// later session in the pair that triggered the flag.
type Anomaly struct {
	Timestamp   time.Time   `json:"timestamp"`
	Type        AnomalyType `json:"type"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
}

// RiskBucket is the coarse classification downstream consumers act on.
type RiskBucket string

const (
	RiskLow    RiskBucket = "low"
	RiskMedium RiskBucket = "medium"
	RiskHigh   RiskBucket = "high"
)

// RiskAssessment is the combined risk verdict for one journey. OverallRisk
// is always the threshold-bucketed form of the underlying accumulator, which
// FraudRisk carries in continuous form.
type RiskAssessment struct {
	OverallRisk        RiskBucket `json:"overallRisk"`
	FraudRisk          float64    `json:"fraudRisk"`
	BotRisk            float64    `json:"botRisk"`
	AccountSharingRisk float64    `json:"accountSharingRisk"`
	VPNUsage           bool       `json:"vpnUsage"`
	ProxyUsage         BoolMetric `json:"proxyUsage"` // no proxy-detection signal exists yet
}

// CrossSessionInsights is the engine's final output for one fingerprint.
type CrossSessionInsights struct {
	FingerprintID string               `json:"fingerprintId"`
	Pattern       *UserPattern         `json:"userPattern"`
	Evolution     *BehavioralEvolution `json:"behavioralEvolution"`
	Anomalies     []Anomaly            `json:"anomalies"`
	Risk          *RiskAssessment      `json:"riskAssessment"`
	ComputedAt    time.Time            `json:"computedAt"`
}

// RiskAlert is the payload pushed to downstream consumers when a journey
// lands in the high risk bucket.
type RiskAlert struct {
	AlertID       string     `json:"alertId"`
	FingerprintID string     `json:"fingerprintId"`
	OverallRisk   RiskBucket `json:"overallRisk"`
	FraudRisk     float64    `json:"fraudRisk"`
	ComputedAt    time.Time  `json:"computedAt"`
}
