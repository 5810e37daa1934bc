// Package ai adapts the text-enhancement gateway: an external HTTP service
// that takes a prompt and returns improved or generated copy.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrGatewayUnavailable is returned when the gateway cannot be reached or
// answers with a non-200 status after retries.
var ErrGatewayUnavailable = errors.New("ai gateway unavailable")

// Gateway produces a completion for a prompt.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type gatewayRequest struct {
	Message string `json:"message"`
}

type gatewayResponse struct {
	Response string `json:"response"`
}

// Client talks to the gateway over HTTP JSON: POST {message} -> {response}.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a gateway client with a bounded per-call timeout.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
	}
}

const completeAttempts = 2

// Complete sends the prompt and returns the raw completion. A transport
// failure gets one retry before giving up.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(gatewayRequest{Message: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < completeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
			}
		}
		out, err := c.complete(ctx, body)
		if err == nil {
			return out, nil
		}
		lastErr = err
		c.logger.Warn("ai gateway call failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, lastErr)
}

func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var out gatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	return out.Response, nil
}
