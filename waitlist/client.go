// Package waitlist reaches the product-access platform to answer one
// question: how many products currently depend on waitlist signups. The
// endpoint registry consults it before the last active waitlist.signup
// subscriber can be removed.
package waitlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client queries the platform's waitlist-dependency count over HTTP.
// It implements endpoint.WaitlistChecker.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a checker against the platform API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// CountDependentProducts returns the number of products configured to rely
// on waitlist signups.
func (c *Client) CountDependentProducts(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/internal/waitlist/dependent-products", nil)
	if err != nil {
		return 0, fmt.Errorf("waitlist: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("waitlist: query dependent products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("waitlist: dependent products query returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("waitlist: decode response: %w", err)
	}
	return body.Count, nil
}
