// Package sessions defines the session-tracking entities the correlation
// engine operates on. Session records are produced by the platform's tracking
// layer and are read-only here; journeys are assembled from them on demand.
package sessions

import (
	"sort"
	"time"
)

// DeviceType classifies the device category reported by the resolver.
type DeviceType string

const (
	DevicePhone   DeviceType = "phone"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// DeviceInfo describes the device/browser combination behind a session.
type DeviceInfo struct {
	Type    DeviceType `json:"type"`
	OS      string     `json:"os"`
	Browser string     `json:"browser"`
}

// GeoLocation is the resolver's coarse location for a session. Only Country
// participates in scoring; Region and City are carried for the contract.
type GeoLocation struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// SessionRecord represents one bounded browsing visit tied to a fingerprint.
// Records are owned by the tracking layer; RiskScore and IsBot are populated
// by the upstream per-session scorer before the record reaches this engine.
type SessionRecord struct {
	ID            string         `json:"id"`
	FingerprintID string         `json:"fingerprintId"`
	StartTime     time.Time      `json:"startTime"`
	Duration      *time.Duration `json:"duration,omitempty"` // nil while the session is ongoing
	Device        DeviceInfo     `json:"deviceInfo"`
	Location      GeoLocation    `json:"location"`
	RiskScore     float64        `json:"riskScore"`
	IsBot         bool           `json:"isBot"`
}

// SessionCorrelation asserts that the sessions behind a set of fingerprints
// likely belong to one visitor. Transient; never persisted by this engine.
type SessionCorrelation struct {
	FingerprintIDs []string `json:"fingerprintIds"`
	Confidence     float64  `json:"confidence"`
	Method         string   `json:"method"`
}

// UserJourney is the ordered session timeline for one fingerprint.
// Sessions are non-decreasing by StartTime.
type UserJourney struct {
	FingerprintID string          `json:"fingerprintId"`
	Sessions      []SessionRecord `json:"sessions"`
}

// NewUserJourney builds a journey from raw sessions, restoring the
// chronological ordering invariant.
func NewUserJourney(fingerprintID string, records []SessionRecord) *UserJourney {
	ordered := make([]SessionRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})
	return &UserJourney{FingerprintID: fingerprintID, Sessions: ordered}
}

// SessionCount returns the number of sessions in the journey.
func (j *UserJourney) SessionCount() int {
	return len(j.Sessions)
}

// JourneyStatus tags the outcome of a journey lookup so callers can tell a
// fingerprint that was never tracked apart from a failing store.
type JourneyStatus string

const (
	JourneyFound    JourneyStatus = "found"
	JourneyNotFound JourneyStatus = "not_found"
	JourneyError    JourneyStatus = "error"
)

// JourneyResult is the tagged result of a journey lookup.
type JourneyResult struct {
	Status  JourneyStatus
	Journey *UserJourney
	Err     error
}

// CorrelationLookup carries the outcome of a correlation query. Degraded is
// set when the remote service failed and the empty result is a fallback, so
// "genuinely no correlations" stays distinguishable from "lookup failed".
type CorrelationLookup struct {
	Correlations []SessionCorrelation `json:"correlations"`
	Degraded     bool                 `json:"degraded"`
}

// ClampScore bounds confidence and risk values to [0,1].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
