// Package rates fetches live exchange rates for the settings screen. The
// rates are display-only: ledger amounts are never converted.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"budget/internal/cache"
)

// DefaultURL is the endpoint the mobile client has always queried.
const DefaultURL = "https://api.exchangerate-api.com/v4/latest/USD"

// Rates is the shape served by the exchange-rate API.
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

type Client struct {
	http  *http.Client
	url   string
	cache *cache.LRUCache[Rates]
}

const cacheKey = "latest"

func NewClient(url string, ttl time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		url:   url,
		cache: cache.NewLRUCache[Rates](1, ttl),
	}
}

// Latest returns the current rate table, served from cache within the TTL.
func (c *Client) Latest(ctx context.Context) (Rates, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Rates{}, fmt.Errorf("build rates request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Rates{}, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rates{}, fmt.Errorf("rates endpoint returned %s", resp.Status)
	}

	var out Rates
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Rates{}, fmt.Errorf("decode rates: %w", err)
	}

	c.cache.Set(cacheKey, out)
	return out, nil
}
