package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// Interface assertion against the domain contract.
var _ sessions.JourneyStore = (*JourneyClient)(nil)

// JourneyClient reaches the remote journey store over HTTP.
type JourneyClient struct {
	*client
}

// NewJourneyClient creates a journey store client against the given base URL.
func NewJourneyClient(baseURL, jwtSecret string, timeout, tokenTTL time.Duration, logger *logging.ChanneledLogger) *JourneyClient {
	return &JourneyClient{
		client: newClient(baseURL, jwtSecret, timeout, tokenTTL, logger),
	}
}

// FindByFingerprintID fetches the journey for one fingerprint.
// Returns (nil, nil) when the store has never seen the fingerprint.
func (c *JourneyClient) FindByFingerprintID(ctx context.Context, fingerprintID string) (*sessions.UserJourney, error) {
	var journey sessions.UserJourney
	status, err := c.do(ctx, http.MethodGet, "/journeys/"+url.PathEscape(fingerprintID), nil, &journey)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	return &journey, nil
}

// updateJourneyRequest is the wire shape of a journey write.
type updateJourneyRequest struct {
	Session sessions.SessionRecord `json:"session"`
}

// Upsert pushes a session record and returns the authoritative recomputed
// journey from the store.
func (c *JourneyClient) Upsert(ctx context.Context, session sessions.SessionRecord) (*sessions.UserJourney, error) {
	var journey sessions.UserJourney
	if _, err := c.do(ctx, http.MethodPost, "/journeys", updateJourneyRequest{Session: session}, &journey); err != nil {
		return nil, err
	}
	return &journey, nil
}
