package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/platform/resilience"
)

// MarketClient talks to the plain REST ban/marketplace service.
type MarketClient struct {
	client  *http.Client
	baseURL string
	cb      *resilience.CircuitBreaker
	logger  *observability.Logger
	metrics *observability.Metrics
}

// MarketClientConfig holds market client configuration
type MarketClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	Logger         *observability.Logger
	Metrics        *observability.Metrics
	CircuitBreaker *resilience.CircuitBreaker
}

// NewMarketClient creates a new market client
func NewMarketClient(cfg MarketClientConfig) *MarketClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	cb := cfg.CircuitBreaker
	if cb == nil {
		cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "market",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
			OnStateChange: func(from, to resilience.State) {
				if cfg.Metrics != nil {
					cfg.Metrics.SetCircuitBreakerState(context.Background(), "market", int64(to))
				}
			},
		})
	}

	return &MarketClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		cb:      cb,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// marketGet fetches path through the circuit breaker and decodes the JSON
// body into T. A 404 maps to ErrNotFound; anything else non-200 is a failure.
func marketGet[T any](ctx context.Context, c *MarketClient, endpoint, path string) (T, error) {
	return resilience.ExecuteWithResult(c.cb, ctx, func(ctx context.Context) (T, error) {
		start := time.Now()
		out, err := marketDoGet[T](ctx, c, path)
		duration := time.Since(start)

		if c.metrics != nil {
			status := "success"
			if err != nil {
				status = "error"
			}
			c.metrics.RecordUpstreamCall(ctx, "market", endpoint, status, duration)
		}

		return out, err
	})
}

func marketDoGet[T any](ctx context.Context, c *MarketClient, path string) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return out, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return out, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}

	return out, nil
}

// BanStatus fetches the ban report for a player. A successful answer is
// authoritative and tagged with source "live".
func (c *MarketClient) BanStatus(ctx context.Context, name string) (*BanStatus, error) {
	path := fmt.Sprintf("/bans/%s", url.PathEscape(name))

	status, err := marketGet[BanStatus](ctx, c, "bans", path)
	if err != nil {
		return nil, err
	}

	status.Name = name
	status.Source = "live"
	return &status, nil
}

// GlobalStats fetches the aggregate marketplace statistics.
func (c *MarketClient) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	stats, err := marketGet[GlobalStats](ctx, c, "stats", "/stats")
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// PriceHistory fetches an item's price history over the given number of days.
func (c *MarketClient) PriceHistory(ctx context.Context, itemID string, days int) (*PriceHistory, error) {
	path := fmt.Sprintf("/history/%s?days=%d", url.PathEscape(itemID), days)

	points, err := marketGet[[]PricePoint](ctx, c, "history", path)
	if err != nil {
		return nil, err
	}

	return &PriceHistory{
		ItemID: itemID,
		Days:   days,
		Points: points,
	}, nil
}
