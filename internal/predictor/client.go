package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an external inference service over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Predictor = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Available reports whether an inference endpoint is configured.
// Transport failures surface from Predict itself.
func (c *Client) Available() bool {
	return c.endpoint != ""
}

// Predict sends the feature matrix for scoring.
func (c *Client) Predict(ctx context.Context, columns []string, rows [][]float64) ([][]float64, error) {
	payload := map[string]any{
		"columns": columns,
		"rows":    rows,
	}

	var resp struct {
		Predictions [][]float64 `json:"predictions"`
	}
	if err := c.post(ctx, "/predict", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.Predictions) != len(rows) {
		return nil, fmt.Errorf("predictor returned %d rows for %d inputs", len(resp.Predictions), len(rows))
	}
	return resp.Predictions, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
