// Package upstream contains clients for the external data providers: the
// GraphQL game-data service and the REST ban/marketplace service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/platform/resilience"
)

// GameDataClient queries the GraphQL game-data service for players and items.
type GameDataClient struct {
	client  *http.Client
	baseURL string
	cb      *resilience.CircuitBreaker
	logger  *observability.Logger
	metrics *observability.Metrics
}

// GameDataClientConfig holds game-data client configuration
type GameDataClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	Logger         *observability.Logger
	Metrics        *observability.Metrics
	CircuitBreaker *resilience.CircuitBreaker
}

// graphqlRequest is the wire shape of a GraphQL POST body
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlError is a single entry in a GraphQL error list
type graphqlError struct {
	Message string `json:"message"`
}

// graphqlResponse is the wire shape of a GraphQL response envelope
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// NewGameDataClient creates a new game-data client
func NewGameDataClient(cfg GameDataClientConfig) *GameDataClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	cb := cfg.CircuitBreaker
	if cb == nil {
		cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "gamedata",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
			OnStateChange: func(from, to resilience.State) {
				if cfg.Metrics != nil {
					cfg.Metrics.SetCircuitBreakerState(context.Background(), "gamedata", int64(to))
				}
			},
		})
	}

	return &GameDataClient{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		cb:      cb,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// query executes a GraphQL query through the circuit breaker and decodes
// the data payload into out. A response carrying an errors list is an
// upstream failure, per the provider's explicit error envelope.
func (c *GameDataClient) query(ctx context.Context, endpoint, query string, vars map[string]interface{}, out interface{}) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		start := time.Now()
		err := c.doQuery(ctx, query, vars, out)
		duration := time.Since(start)

		if c.metrics != nil {
			status := "success"
			if err != nil {
				status = "error"
			}
			c.metrics.RecordUpstreamCall(ctx, "gamedata", endpoint, status, duration)
		}

		return err
	})
}

func (c *GameDataClient) doQuery(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}

// PlayerByName resolves a player profile by account name.
// Returns ErrNotFound when the provider reports no such player.
func (c *GameDataClient) PlayerByName(ctx context.Context, name string) (*Player, error) {
	const q = `query PlayerByName($name: String!) {
		players(name: $name) { id name level side kdRatio }
	}`

	var payload struct {
		Players []Player `json:"players"`
	}

	if err := c.query(ctx, "players", q, map[string]interface{}{"name": name}, &payload); err != nil {
		return nil, err
	}

	for i := range payload.Players {
		if strings.EqualFold(payload.Players[i].Name, name) {
			return &payload.Players[i], nil
		}
	}

	return nil, ErrNotFound
}

// ItemByID resolves a single item by its identifier.
// Returns ErrNotFound when the provider reports no such item.
func (c *GameDataClient) ItemByID(ctx context.Context, id string) (*Item, error) {
	const q = `query ItemByID($id: ID!) {
		item(id: $id) { id name shortName basePrice avg24hPrice wikiLink }
	}`

	var payload struct {
		Item *Item `json:"item"`
	}

	if err := c.query(ctx, "item", q, map[string]interface{}{"id": id}, &payload); err != nil {
		return nil, err
	}

	if payload.Item == nil {
		return nil, ErrNotFound
	}

	return payload.Item, nil
}

// SearchItems searches items by name with pagination. An empty result set
// is a valid answer, not an error.
func (c *GameDataClient) SearchItems(ctx context.Context, query string, limit, offset int) ([]Item, error) {
	const q = `query SearchItems($name: String!, $limit: Int, $offset: Int) {
		items(name: $name, limit: $limit, offset: $offset) {
			id name shortName basePrice avg24hPrice wikiLink
		}
	}`

	var payload struct {
		Items []Item `json:"items"`
	}

	vars := map[string]interface{}{
		"name":   query,
		"limit":  limit,
		"offset": offset,
	}
	if err := c.query(ctx, "items", q, vars, &payload); err != nil {
		return nil, err
	}

	return payload.Items, nil
}
