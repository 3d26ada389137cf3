package gateway

import (
	"context"
	"errors"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/upstream"
)

// Gateway wraps upstream calls with the degradation policy mechanism.
// It is policy-agnostic: call sites that want hard failures simply call
// their upstream client directly and skip the gateway.
type Gateway struct {
	logger  *observability.Logger
	metrics *observability.Metrics
}

// GatewayConfig holds gateway dependencies.
type GatewayConfig struct {
	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// New creates a new Gateway.
func New(cfg GatewayConfig) *Gateway {
	return &Gateway{
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Call performs the upstream operation for FetchOrDegrade.
type Call[T any] func(ctx context.Context) (T, error)

// FetchOrDegrade invokes call once. On success the result is returned
// untouched. An affirmative not-found from the upstream maps to
// StatusNotFound. Any other failure is swallowed: it is logged and counted,
// never retried and never returned, and degraded() supplies the substitute
// value annotated with note.
func FetchOrDegrade[T any](ctx context.Context, g *Gateway, operation string, call Call[T], degraded func() T, note string) Result[T] {
	value, err := call(ctx)
	if err == nil {
		return Result[T]{Status: StatusOK, Value: value}
	}

	if errors.Is(err, upstream.ErrNotFound) {
		return Result[T]{Status: StatusNotFound, Value: value}
	}

	if g != nil {
		if g.logger != nil {
			g.logger.LogWarn(ctx, "upstream call failed, serving degraded result",
				"operation", operation,
				"error", err,
			)
		}
		if g.metrics != nil {
			g.metrics.RecordDegradedResult(ctx, operation)
		}
	}

	return Result[T]{
		Status: StatusDegraded,
		Value:  degraded(),
		Note:   note,
	}
}
