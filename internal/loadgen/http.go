package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// httpClient wraps http.Client with a per-request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// postBatch submits one batch of updates and returns the acceptance counts.
func (c *httpClient) postBatch(ctx context.Context, baseURL string, batch []Update) (BatchResult, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return BatchResult{}, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/updates", bytes.NewReader(payload))
	if err != nil {
		return BatchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return BatchResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusTooManyRequests:
		var result BatchResult
		if err := json.Unmarshal(body, &result); err != nil {
			return BatchResult{}, fmt.Errorf("parse response: %w", err)
		}
		return result, nil
	default:
		return BatchResult{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
}

// getLeaderboard fetches the ranked entries with start <= rank <= end.
func (c *httpClient) getLeaderboard(ctx context.Context, baseURL string, start, end int) ([]RankedCustomer, error) {
	url := baseURL + "/leaderboard?start=" + strconv.Itoa(start) + "&end=" + strconv.Itoa(end)
	var entries []RankedCustomer
	if err := c.get(ctx, url, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// getNeighbors fetches the window around one customer.
func (c *httpClient) getNeighbors(ctx context.Context, baseURL string, customerID int64, high, low int) ([]RankedCustomer, error) {
	url := fmt.Sprintf("%s/leaderboard/%d?high=%d&low=%d", baseURL, customerID, high, low)
	var entries []RankedCustomer
	if err := c.get(ctx, url, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// checkHealth verifies the service is up. Any 200 response counts.
func (c *httpClient) checkHealth(ctx context.Context, baseURL string) error {
	return c.get(ctx, baseURL+"/healthz", nil)
}

// queueLength reads the pending update count from GET /stats.
func (c *httpClient) queueLength(ctx context.Context, baseURL string) (int, error) {
	var stats map[string]interface{}
	if err := c.get(ctx, baseURL+"/stats", &stats); err != nil {
		return 0, err
	}
	if v, ok := stats["queueLength"].(float64); ok {
		return int(v), nil
	}
	return 0, fmt.Errorf("stats response missing queueLength")
}
