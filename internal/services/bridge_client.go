package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-studio/backend/pkg/models"
)

const (
	bridgeStatusPath  = "/api/v1/status"
	bridgeExecutePath = "/api/v1/execute-command"
)

// HTTPBridgeClient is an HTTP implementation of the BridgeClient interface.
type HTTPBridgeClient struct {
	url    string
	client *http.Client
}

// NewHTTPBridgeClient creates a new HTTPBridgeClient. Every request is bounded
// by timeout in addition to the caller's context.
func NewHTTPBridgeClient(url string, timeout time.Duration) *HTTPBridgeClient {
	return &HTTPBridgeClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Status returns the bridge's self-reported status.
func (c *HTTPBridgeClient) Status(ctx context.Context) (*models.BridgeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+bridgeStatusPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var status models.BridgeStatus
	if err := c.do(req, &status); err != nil {
		return nil, fmt.Errorf("failed to get bridge status: %w", err)
	}
	return &status, nil
}

// Execute submits a command to the bridge. The bridge answers with a JSON
// object describing the accepted task; it is returned as decoded.
func (c *HTTPBridgeClient) Execute(ctx context.Context, cmd models.AICommand) (map[string]any, error) {
	requestBody, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+bridgeExecutePath, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var payload map[string]any
	if err := c.do(req, &payload); err != nil {
		return nil, fmt.Errorf("failed to execute command %q: %w", cmd.Command, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

func (c *HTTPBridgeClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
