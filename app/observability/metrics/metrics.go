package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	PickRequestsTotal   metric.Int64Counter
	PickDurationSeconds metric.Float64Histogram
	CacheHitsTotal      metric.Int64Counter
	CacheMissesTotal    metric.Int64Counter
	CacheErrorsTotal    metric.Int64Counter
	ProviderCallsTotal  metric.Int64Counter
	ProviderErrorsTotal metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("PickMyBite")
		var err error
		m := &AppMetrics{}

		m.PickRequestsTotal, err = meter.Int64Counter(
			"pick_requests_total",
			metric.WithDescription("Total number of pick requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pick_requests_total: %v", err)
		}

		m.PickDurationSeconds, err = meter.Float64Histogram(
			"pick_duration_seconds",
			metric.WithDescription("Duration of pick requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pick_duration_seconds: %v", err)
		}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"place_cache_hits_total",
			metric.WithDescription("Total number of place cache hits"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"place_cache_misses_total",
			metric.WithDescription("Total number of place cache misses"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_cache_misses_total: %v", err)
		}

		m.CacheErrorsTotal, err = meter.Int64Counter(
			"place_cache_errors_total",
			metric.WithDescription("Total number of place cache failures degraded to a miss"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_cache_errors_total: %v", err)
		}

		m.ProviderCallsTotal, err = meter.Int64Counter(
			"provider_calls_total",
			metric.WithDescription("Total number of nearby-search provider calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_calls_total: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"provider_errors_total",
			metric.WithDescription("Total number of failed provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, creating the
// instruments against the current global MeterProvider on first use (outside
// main that is the no-op provider, which keeps tests quiet).
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
