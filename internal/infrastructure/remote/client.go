// Package remote provides the HTTP clients for the engine's three remote
// endpoints: correlate, journey fetch, and journey update. The engine is a
// client here, never a server; callers bound latency through the request
// context.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/security"
)

// client carries the shared transport for both remote services.
type client struct {
	httpClient *http.Client
	baseURL    string
	jwtSecret  string
	tokenTTL   time.Duration
	logger     *logging.ChanneledLogger
}

func newClient(baseURL, jwtSecret string, timeout, tokenTTL time.Duration, logger *logging.ChanneledLogger) *client {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// do executes one JSON request. A non-nil out is decoded from 2xx bodies.
// The HTTP status is returned for outcomes the caller must branch on (404
// from the journey store is "never tracked", not an error).
func (c *client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	start := time.Now()
	requestID := security.GenerateULID()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.jwtSecret != "" {
		token, err := security.GenerateServiceToken("crosstrace-engine", c.jwtSecret, c.tokenTTL)
		if err != nil {
			return 0, fmt.Errorf("mint service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Remote().Error("Remote call failed", "method", method, "path", path, "requestId", requestID, "error", err.Error(), "duration", time.Since(start))
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Remote().Debug("Remote call completed", "method", method, "path", path, "requestId", requestID, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, string(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}
