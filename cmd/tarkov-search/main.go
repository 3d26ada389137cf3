package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/isogloss/tarkov-search/internal/admin"
	"github.com/isogloss/tarkov-search/internal/gateway"
	"github.com/isogloss/tarkov-search/internal/httpapi"
	"github.com/isogloss/tarkov-search/internal/platform/cache"
	"github.com/isogloss/tarkov-search/internal/platform/config"
	"github.com/isogloss/tarkov-search/internal/platform/observability"
	"github.com/isogloss/tarkov-search/internal/platform/resilience"
	"github.com/isogloss/tarkov-search/internal/search"
	"github.com/isogloss/tarkov-search/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	log.Println("Loading configuration...")
	cfg := config.MustLoad("")

	// Setup observability (foundational - must be first)
	logger := observability.NewLogger(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	metrics, err := observability.NewMetrics("tarkov-search", cfg.Observability.Metrics.Enabled)
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	tracer, err := observability.NewTracerProvider(ctx, "tarkov-search", cfg.Observability.Tracing.Endpoint, cfg.Observability.Tracing.Enabled)
	if err != nil {
		log.Fatalf("Failed to create tracer: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	logger.Info("observability setup complete")

	// Cache store and resolver
	store := cache.NewStore()
	resolver := cache.NewResolver(cache.ResolverConfig{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
	})

	// Per-client rate limiter
	limiter := resilience.NewClientLimiter(cfg.RateLimit.Window, cfg.RateLimit.Limit)

	// Upstream clients
	logger.Info("creating upstream clients...",
		"gamedata_url", cfg.Upstream.GameDataURL,
		"market_url", cfg.Upstream.MarketURL,
	)

	gamedata := upstream.NewGameDataClient(upstream.GameDataClientConfig{
		BaseURL: cfg.Upstream.GameDataURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  logger,
		Metrics: metrics,
	})

	market := upstream.NewMarketClient(upstream.MarketClientConfig{
		BaseURL: cfg.Upstream.MarketURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  logger,
		Metrics: metrics,
	})

	// Resilient fetch gateway
	fetchGateway := gateway.New(gateway.GatewayConfig{
		Logger:  logger,
		Metrics: metrics,
	})

	// Domain service
	service := search.NewService(search.ServiceConfig{
		Resolver: resolver,
		Gateway:  fetchGateway,
		GameData: gamedata,
		Market:   market,
		TTLs: search.TTLs{
			Market: cfg.Cache.MarketTTL,
			Ban:    cfg.Cache.BanTTL,
			Lookup: cfg.Cache.LookupTTL,
		},
		Logger: logger,
	})

	// Warm semi-static data before serving traffic; failures are logged
	// and the gateway starts anyway.
	warmer := cache.NewWarmer(logger, cache.DefaultWarmupConfig())
	warmer.RegisterProvider(service)
	warmer.Warmup(ctx)

	// Admin controller
	adminCtrl := admin.NewController(admin.ControllerConfig{
		Store:    store,
		Verifier: admin.NewStaticSecret(cfg.Admin.Secret),
	})

	// HTTP server
	apiServer := httpapi.NewServer(httpapi.ServerConfig{
		Service: service,
		Admin:   adminCtrl,
		Limiter: limiter,
		Logger:  logger,
		Metrics: metrics,
		Tracer:  tracer,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: apiServer.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, gracefully stopping...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.LogError(ctx, "gateway stopped with error", err)
		return
	}

	logger.Info("gateway stopped")
}
