// Package search is the domain service: it composes the cache resolver,
// the resilient fetch gateway, and the upstream clients, and declares the
// hard-fail versus soft-degrade policy per operation.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isogloss/tarkov-search/internal/gateway"
	"github.com/isogloss/tarkov-search/internal/platform/cache"
	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/upstream"
)

var (
	// ErrInvalidName is returned for a malformed or missing player name
	ErrInvalidName = errors.New("search: invalid player name")

	// ErrInvalidItemID is returned for a malformed or missing item id
	ErrInvalidItemID = errors.New("search: invalid item id")

	// ErrInvalidQuery is returned for a malformed or missing search query
	ErrInvalidQuery = errors.New("search: invalid query")
)

// GameData is the game-data provider surface the service depends on.
type GameData interface {
	PlayerByName(ctx context.Context, name string) (*upstream.Player, error)
	ItemByID(ctx context.Context, id string) (*upstream.Item, error)
	SearchItems(ctx context.Context, query string, limit, offset int) ([]upstream.Item, error)
}

// Market is the ban/marketplace provider surface the service depends on.
type Market interface {
	BanStatus(ctx context.Context, name string) (*upstream.BanStatus, error)
	GlobalStats(ctx context.Context) (*upstream.GlobalStats, error)
	PriceHistory(ctx context.Context, itemID string, days int) (*upstream.PriceHistory, error)
}

// TTLs holds the per-class cache durations.
type TTLs struct {
	Market time.Duration
	Ban    time.Duration
	Lookup time.Duration
}

// Service resolves client requests through the cache, calling upstream
// only on a miss. Player and item lookups are hard paths: an upstream
// failure propagates, because a wrong identity is worse than "try again".
// Ban status, stats, and price history are soft paths: failures become
// degraded-but-valid results.
type Service struct {
	resolver *cache.Resolver
	gateway  *gateway.Gateway
	gamedata GameData
	market   Market
	ttls     TTLs
	logger   *observability.Logger
}

// ServiceConfig holds service dependencies.
type ServiceConfig struct {
	Resolver *cache.Resolver
	Gateway  *gateway.Gateway
	GameData GameData
	Market   Market
	TTLs     TTLs
	Logger   *observability.Logger
}

// NewService creates the search service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		resolver: cfg.Resolver,
		gateway:  cfg.Gateway,
		gamedata: cfg.GameData,
		market:   cfg.Market,
		ttls:     cfg.TTLs,
		logger:   cfg.Logger,
	}
}

// Player resolves a player profile by name. Hard path: upstream failures
// and not-found both propagate to the caller.
func (s *Service) Player(ctx context.Context, name string) (*upstream.Player, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}

	value, err := s.resolver.Resolve(ctx, cache.PlayerKey(name), s.ttls.Lookup, func(ctx context.Context) (interface{}, error) {
		return s.gamedata.PlayerByName(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	return value.(*upstream.Player), nil
}

// Item resolves a single item by id. Hard path.
func (s *Service) Item(ctx context.Context, id string) (*upstream.Item, error) {
	if id == "" || len(id) > 64 {
		return nil, ErrInvalidItemID
	}

	value, err := s.resolver.Resolve(ctx, cache.ItemKey(id), s.ttls.Lookup, func(ctx context.Context) (interface{}, error) {
		return s.gamedata.ItemByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return value.(*upstream.Item), nil
}

// Items searches items by name with pagination. Hard path.
func (s *Service) Items(ctx context.Context, query string, limit, offset int) ([]upstream.Item, error) {
	if query == "" || len(query) > 128 {
		return nil, ErrInvalidQuery
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	value, err := s.resolver.Resolve(ctx, cache.ItemSearchKey(query, limit, offset), s.ttls.Lookup, func(ctx context.Context) (interface{}, error) {
		return s.gamedata.SearchItems(ctx, query, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	return value.([]upstream.Item), nil
}

// BanStatus resolves a player's ban report. Soft path: if the provider is
// unreachable the caller gets a well-formed non-banned report tagged with
// source "offline" and a note, never an error.
func (s *Service) BanStatus(ctx context.Context, name string) (*upstream.BanStatus, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}

	value, err := s.resolver.Resolve(ctx, cache.BanKey(name), s.ttls.Ban, func(ctx context.Context) (interface{}, error) {
		result := gateway.FetchOrDegrade(ctx, s.gateway, "ban_status",
			func(ctx context.Context) (*upstream.BanStatus, error) {
				return s.market.BanStatus(ctx, name)
			},
			func() *upstream.BanStatus {
				return &upstream.BanStatus{
					Name:     name,
					IsBanned: false,
					Source:   "offline",
					Note:     "ban provider unreachable, status unknown",
				}
			},
			"ban provider unreachable, status unknown",
		)

		if result.Status == gateway.StatusNotFound {
			// The provider affirmatively does not know this player.
			return &upstream.BanStatus{
				Name:     name,
				IsBanned: false,
				Source:   "live",
				Note:     "player not known to ban provider",
			}, nil
		}

		return result.Value, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*upstream.BanStatus), nil
}

// Stats resolves the global marketplace statistics. Soft path.
func (s *Service) Stats(ctx context.Context) (*upstream.GlobalStats, error) {
	value, err := s.resolver.Resolve(ctx, cache.StatsKey(), s.ttls.Ban, func(ctx context.Context) (interface{}, error) {
		result := gateway.FetchOrDegrade(ctx, s.gateway, "global_stats",
			func(ctx context.Context) (*upstream.GlobalStats, error) {
				return s.market.GlobalStats(ctx)
			},
			func() *upstream.GlobalStats {
				return &upstream.GlobalStats{
					UpdatedAt: time.Now(),
					Note:      "stats provider unreachable, reporting empty statistics",
				}
			},
			"stats provider unreachable, reporting empty statistics",
		)

		if result.Status == gateway.StatusNotFound {
			// The provider affirmatively has no statistics; an empty
			// report is the authoritative answer, never a nil one.
			return &upstream.GlobalStats{
				UpdatedAt: time.Now(),
				Note:      "stats provider reported no data",
			}, nil
		}

		return result.Value, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*upstream.GlobalStats), nil
}

// PriceHistory resolves an item's price history. Soft path for provider
// failures; an unknown item is a distinct not-found outcome and propagates.
func (s *Service) PriceHistory(ctx context.Context, itemID string, days int) (*upstream.PriceHistory, error) {
	if itemID == "" || len(itemID) > 64 {
		return nil, ErrInvalidItemID
	}
	if days <= 0 || days > 30 {
		days = 7
	}

	value, err := s.resolver.Resolve(ctx, cache.PriceHistoryKey(itemID, days), s.ttls.Market, func(ctx context.Context) (interface{}, error) {
		result := gateway.FetchOrDegrade(ctx, s.gateway, "price_history",
			func(ctx context.Context) (*upstream.PriceHistory, error) {
				return s.market.PriceHistory(ctx, itemID, days)
			},
			func() *upstream.PriceHistory {
				return &upstream.PriceHistory{
					ItemID: itemID,
					Days:   days,
					Points: []upstream.PricePoint{},
					Note:   "price provider unreachable, history unavailable",
				}
			},
			"price provider unreachable, history unavailable",
		)

		if result.Status == gateway.StatusNotFound {
			return nil, upstream.ErrNotFound
		}

		return result.Value, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*upstream.PriceHistory), nil
}

// Name implements cache.WarmupProvider.
func (s *Service) Name() string {
	return "search"
}

// Warmup implements cache.WarmupProvider by pre-populating the global
// stats entry. It bypasses the degradation path on purpose: caching a
// degraded placeholder at boot would pin it for the whole class TTL.
func (s *Service) Warmup(ctx context.Context) error {
	stats, err := s.market.GlobalStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm global stats: %w", err)
	}

	s.resolver.Store().Put(cache.StatsKey(), stats)
	return nil
}

// validName reports whether a player name is acceptable as request identity.
func validName(name string) bool {
	return name != "" && len(name) <= 64
}
