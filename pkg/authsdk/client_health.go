package authsdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Health calls GET /health. It only reports that the process is serving.
func (c *SDKClient) Health(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetReadiness calls GET /readyz. When the store is unreachable the server
// answers 503; the decoded report is still returned alongside an *APIError
// so callers can inspect Checks.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusServiceUnavailable {
		var health HealthResponse
		if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
			return nil, err
		}
		return &health, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil || health.Status == "" {
		return nil, parseErrorResponse(resp, body)
	}
	return &health, &APIError{StatusCode: resp.StatusCode, Message: health.Status}
}
