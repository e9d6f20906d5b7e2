package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// Interface assertion against the domain contract.
var _ sessions.CorrelationSource = (*CorrelationClient)(nil)

// CorrelationClient reaches the remote correlation service over HTTP.
type CorrelationClient struct {
	*client
}

// NewCorrelationClient creates a correlation service client against the
// given base URL.
func NewCorrelationClient(baseURL, jwtSecret string, timeout, tokenTTL time.Duration, logger *logging.ChanneledLogger) *CorrelationClient {
	return &CorrelationClient{
		client: newClient(baseURL, jwtSecret, timeout, tokenTTL, logger),
	}
}

// Correlate submits a correlation query and returns the matched session
// correlations. Filtering by confidence happens both remotely and in the
// correlation engine; the engine treats its own filter as authoritative.
func (c *CorrelationClient) Correlate(ctx context.Context, req sessions.CorrelateRequest) ([]sessions.SessionCorrelation, error) {
	var correlations []sessions.SessionCorrelation
	if _, err := c.do(ctx, http.MethodPost, "/correlate", req, &correlations); err != nil {
		return nil, err
	}
	return correlations, nil
}
