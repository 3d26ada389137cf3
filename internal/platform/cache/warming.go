package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
)

// WarmupProvider defines the interface for components that can pre-populate
// the cache with initial data. Implementations must be idempotent.
type WarmupProvider interface {
	// Name returns a human-readable name for logging purposes
	Name() string

	// Warmup pre-populates the cache with initial data.
	Warmup(ctx context.Context) error
}

// WarmupConfig configures the cache warming behavior.
type WarmupConfig struct {
	// Timeout is the maximum duration to wait for all providers to complete
	Timeout time.Duration
}

// DefaultWarmupConfig returns sensible defaults for cache warming.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Timeout: 30 * time.Second,
	}
}

// Warmer runs registered warmup providers concurrently at startup.
// A provider failure is logged and does not abort the others: warming is
// best-effort and the gateway serves traffic regardless.
type Warmer struct {
	providers []WarmupProvider
	logger    *observability.Logger
	config    WarmupConfig
}

// NewWarmer creates a new cache warmer.
func NewWarmer(logger *observability.Logger, config WarmupConfig) *Warmer {
	return &Warmer{
		providers: make([]WarmupProvider, 0),
		logger:    logger,
		config:    config,
	}
}

// RegisterProvider adds a warmup provider to the warmer.
func (w *Warmer) RegisterProvider(provider WarmupProvider) {
	w.providers = append(w.providers, provider)
}

// Warmup executes all registered providers concurrently and returns the
// number of providers that failed.
func (w *Warmer) Warmup(ctx context.Context) int {
	if len(w.providers) == 0 {
		return 0
	}

	warmupCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	start := time.Now()
	failures := make(chan string, len(w.providers))

	g, gctx := errgroup.WithContext(warmupCtx)
	for _, provider := range w.providers {
		p := provider
		g.Go(func() error {
			if err := p.Warmup(gctx); err != nil {
				w.logger.LogWarn(gctx, fmt.Sprintf("cache warmup failed for %s: %v", p.Name(), err))
				failures <- p.Name()
			}
			return nil
		})
	}

	_ = g.Wait()
	close(failures)

	failed := 0
	for range failures {
		failed++
	}

	if failed > 0 {
		w.logger.LogWarn(ctx, fmt.Sprintf("cache warmup completed with %d/%d failures in %v",
			failed, len(w.providers), time.Since(start)))
	} else {
		w.logger.LogInfo(ctx, fmt.Sprintf("cache warmup completed (%d providers) in %v",
			len(w.providers), time.Since(start)))
	}

	return failed
}
