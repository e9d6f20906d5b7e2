// Package services contains the stateless analysis services and the
// orchestration layer of the cross-session engine.
package services

import (
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
)

// Similarity factor weights. Fixed heuristics, not calibrated against
// labeled fraud data; treat relative ordering as meaningful, not the
// absolute values.
const (
	weightDeviceType = 0.3
	weightOS         = 0.2
	weightBrowser    = 0.2
	weightTemporal   = 0.2
	weightCountry    = 0.1

	temporalCloseGap = 24 * time.Hour
	temporalNearGap  = 7 * 24 * time.Hour
)

// SimilarityService scores the behavioral similarity of two sessions.
type SimilarityService struct{}

// NewSimilarityService creates the similarity scorer.
func NewSimilarityService() *SimilarityService {
	return &SimilarityService{}
}

// ComputeSimilarity returns a score in [0,1] for two session records.
// Each applicable factor contributes its weight to the denominator; matched
// factors contribute to the numerator. The country factor only applies when
// both sessions report a country. Deterministic, no I/O.
func (s *SimilarityService) ComputeSimilarity(a, b sessions.SessionRecord) float64 {
	var matched, applicable float64

	applicable += weightDeviceType
	if a.Device.Type == b.Device.Type {
		matched += weightDeviceType
	}

	applicable += weightOS
	if a.Device.OS == b.Device.OS {
		matched += weightOS
	}

	applicable += weightBrowser
	if a.Device.Browser == b.Device.Browser {
		matched += weightBrowser
	}

	applicable += weightTemporal
	gap := a.StartTime.Sub(b.StartTime)
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap < temporalCloseGap:
		matched += weightTemporal
	case gap < temporalNearGap:
		matched += weightTemporal / 2
	}

	if a.Location.Country != "" && b.Location.Country != "" {
		applicable += weightCountry
		if a.Location.Country == b.Location.Country {
			matched += weightCountry
		}
	}

	if applicable == 0 {
		return 0
	}
	return sessions.ClampScore(matched / applicable)
}
