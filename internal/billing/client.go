package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Options configures the balance-service client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client reads the caller's credit balance. The balance is advisory: it
// gates the execute action client-side but is not a reservation, so a
// balance change between check and dispatch surfaces as a request-time
// error from the edit service instead.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: client, baseURL: base, token: strings.TrimSpace(opts.APIKey)}
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
	Message string  `json:"message,omitempty"`
}

// Balance returns the current credit balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	if c == nil || c.baseURL == "" {
		return 0, errors.New("billing: client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/balance", nil)
	if err != nil {
		return 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("billing: %w", err)
	}
	defer resp.Body.Close()

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("billing: decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Message != "" {
			return 0, fmt.Errorf("billing: %s", out.Message)
		}
		return 0, fmt.Errorf("billing: http %d", resp.StatusCode)
	}
	return out.Balance, nil
}
