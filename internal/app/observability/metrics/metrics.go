package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal         metric.Int64Counter
	HTTPRequestDuration       metric.Float64Histogram
	SnapshotComputationsTotal metric.Int64Counter
	SnapshotCacheHitsTotal    metric.Int64Counter
	RecommendationDuration    metric.Float64Histogram
	IngestedEventsTotal       metric.Int64Counter
	ProviderRequestsTotal     metric.Int64Counter
	DBQueryDurationSeconds    metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments only once,
// getting the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("gigradar")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SnapshotComputationsTotal, err = meter.Int64Counter(
			"popularity_snapshot_computations_total",
			metric.WithDescription("Total number of popularity snapshot computations"),
			metric.WithUnit("{computation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create popularity_snapshot_computations_total: %v", err)
		}

		m.SnapshotCacheHitsTotal, err = meter.Int64Counter(
			"popularity_snapshot_cache_hits_total",
			metric.WithDescription("Popularity reads served from a stored snapshot"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create popularity_snapshot_cache_hits_total: %v", err)
		}

		m.RecommendationDuration, err = meter.Float64Histogram(
			"recommendation_compute_duration_seconds",
			metric.WithDescription("Duration of recommendation computations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_compute_duration_seconds: %v", err)
		}

		m.IngestedEventsTotal, err = meter.Int64Counter(
			"ingested_events_total",
			metric.WithDescription("Total number of events upserted from the ticketing source"),
			metric.WithUnit("{event}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ingested_events_total: %v", err)
		}

		m.ProviderRequestsTotal, err = meter.Int64Counter(
			"provider_requests_total",
			metric.WithDescription("Outbound requests to external signal providers"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_requests_total: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
		log.Println("Application metrics initialized.")
	})
}

// Get returns the initialized global AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		log.Panic("Metrics accessed before initialization")
	}
	return appMetrics
}

// Instance returns the global AppMetrics or nil when metrics were never
// initialized. Callers on hot paths nil-check instead of panicking.
func Instance() *AppMetrics {
	return appMetrics
}

// RecordDBQuery observes one query duration under the given query label.
func RecordDBQuery(ctx context.Context, query string, start time.Time) {
	if m := Instance(); m != nil {
		m.DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("query", query)))
	}
}

// RecordProviderRequest counts one outbound call to a signal provider.
func RecordProviderRequest(ctx context.Context, provider string, err error) {
	if m := Instance(); m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.ProviderRequestsTotal.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("provider", provider),
				attribute.String("status", status),
			))
	}
}
