// Package observability provides logging, metrics, and tracing utilities.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Metrics holds all application metrics
type Metrics struct {
	meter metric.Meter

	// Cache metrics
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter
	CacheSize   metric.Int64Gauge

	// Upstream call metrics
	UpstreamCalls    metric.Int64Counter
	UpstreamDuration metric.Float64Histogram

	// Degradation metrics
	DegradedResults metric.Int64Counter

	// Rate limiter metrics
	RateLimitRejections metric.Int64Counter

	// Circuit breaker metrics
	CircuitBreakerState metric.Int64Gauge

	// Admin metrics
	AdminInvalidations metric.Int64Counter

	// Error metrics
	Errors metric.Int64Counter

	// Prometheus exporter for HTTP handler
	exporter *prometheus.Exporter
}

// NewMetrics creates a new Metrics instance
func NewMetrics(serviceName string, enabled bool) (*Metrics, error) {
	if !enabled {
		return &Metrics{}, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	meter := provider.Meter(serviceName)

	m := &Metrics{
		meter:    meter,
		exporter: exporter,
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

// initMetrics initializes all metric instruments
func (m *Metrics) initMetrics() error {
	var err error

	m.CacheHits, err = m.meter.Int64Counter(
		"tarkovsearch.cache.hits",
		metric.WithDescription("Total cache hits"),
	)
	if err != nil {
		return err
	}

	m.CacheMisses, err = m.meter.Int64Counter(
		"tarkovsearch.cache.misses",
		metric.WithDescription("Total cache misses"),
	)
	if err != nil {
		return err
	}

	m.CacheSize, err = m.meter.Int64Gauge(
		"tarkovsearch.cache.size",
		metric.WithDescription("Number of entries currently held by the cache store"),
	)
	if err != nil {
		return err
	}

	m.UpstreamCalls, err = m.meter.Int64Counter(
		"tarkovsearch.upstream.calls",
		metric.WithDescription("Total upstream API calls"),
	)
	if err != nil {
		return err
	}

	m.UpstreamDuration, err = m.meter.Float64Histogram(
		"tarkovsearch.upstream.duration",
		metric.WithDescription("Upstream API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	m.DegradedResults, err = m.meter.Int64Counter(
		"tarkovsearch.degraded.results",
		metric.WithDescription("Total results served from the degraded fallback path"),
	)
	if err != nil {
		return err
	}

	m.RateLimitRejections, err = m.meter.Int64Counter(
		"tarkovsearch.ratelimit.rejections",
		metric.WithDescription("Total requests rejected by the rate limiter"),
	)
	if err != nil {
		return err
	}

	m.CircuitBreakerState, err = m.meter.Int64Gauge(
		"tarkovsearch.circuit_breaker.state",
		metric.WithDescription("Circuit breaker state (0=closed, 1=open, 2=half-open)"),
	)
	if err != nil {
		return err
	}

	m.AdminInvalidations, err = m.meter.Int64Counter(
		"tarkovsearch.admin.invalidations",
		metric.WithDescription("Total admin cache invalidation operations"),
	)
	if err != nil {
		return err
	}

	m.Errors, err = m.meter.Int64Counter(
		"tarkovsearch.errors",
		metric.WithDescription("Total errors encountered"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(ctx context.Context, class string) {
	if m.CacheHits == nil {
		return
	}
	m.CacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("class", class)))
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(ctx context.Context, class string) {
	if m.CacheMisses == nil {
		return
	}
	m.CacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("class", class)))
}

// SetCacheSize records the current number of cache entries
func (m *Metrics) SetCacheSize(ctx context.Context, size int) {
	if m.CacheSize == nil {
		return
	}
	m.CacheSize.Record(ctx, int64(size))
}

// RecordUpstreamCall records an upstream API call
func (m *Metrics) RecordUpstreamCall(ctx context.Context, service, endpoint, status string, duration time.Duration) {
	if m.UpstreamCalls == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("service", service),
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	}

	m.UpstreamCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.UpstreamDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordDegradedResult records a result served from the degraded fallback path
func (m *Metrics) RecordDegradedResult(ctx context.Context, operation string) {
	if m.DegradedResults == nil {
		return
	}
	m.DegradedResults.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordRateLimitRejection records a request rejected by the rate limiter
func (m *Metrics) RecordRateLimitRejection(ctx context.Context) {
	if m.RateLimitRejections == nil {
		return
	}
	m.RateLimitRejections.Add(ctx, 1)
}

// SetCircuitBreakerState sets circuit breaker state
// 0 = closed, 1 = open, 2 = half-open
func (m *Metrics) SetCircuitBreakerState(ctx context.Context, service string, state int64) {
	if m.CircuitBreakerState == nil {
		return
	}
	m.CircuitBreakerState.Record(ctx, state, metric.WithAttributes(attribute.String("service", service)))
}

// RecordAdminInvalidation records an admin cache invalidation operation
func (m *Metrics) RecordAdminInvalidation(ctx context.Context, scope string, removed int) {
	if m.AdminInvalidations == nil {
		return
	}
	m.AdminInvalidations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.Int("removed", removed),
	))
}

// RecordError records an error
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	if m.Errors == nil {
		return
	}
	m.Errors.Add(ctx, 1, metric.WithAttributes(attribute.String("type", errorType)))
}

// Handler returns the HTTP handler for Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	// The OpenTelemetry Prometheus exporter registers with the default
	// Prometheus registry, so the standard handler serves everything.
	return promhttp.Handler()
}
