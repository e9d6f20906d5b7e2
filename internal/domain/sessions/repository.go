// Package sessions also defines the contracts for reaching the remote
// session store. The engine does not own persistence; these interfaces are
// satisfied by HTTP clients in production and by the local SQL store in
// standalone mode.
package sessions

import "context"

// CorrelateRequest is the wire shape of a correlation query.
type CorrelateRequest struct {
	FingerprintIDs []string `json:"fingerprintIds"`
	MinConfidence  float64  `json:"minConfidence"`
	MaxResults     int      `json:"maxResults"`
}

// CorrelationSource matches sessions across fingerprints on behalf of the
// correlation engine.
type CorrelationSource interface {
	Correlate(ctx context.Context, req CorrelateRequest) ([]SessionCorrelation, error)
}

// JourneyStore is the minimal contract to the remote journey store.
// FindByFingerprintID returns (nil, nil) when the fingerprint was never
// tracked; an error means the store itself failed.
type JourneyStore interface {
	FindByFingerprintID(ctx context.Context, fingerprintID string) (*UserJourney, error)
	Upsert(ctx context.Context, session SessionRecord) (*UserJourney, error)
}
