package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationsTotal          metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	RepairAttemptsTotal       metric.Int64Counter
	EnrichmentFailuresTotal   metric.Int64Counter
	LogUploadErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider. Safe to call from multiple packages.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("AtlasItineraries")
		var err error
		m := &AppMetrics{}

		m.GenerationsTotal, err = meter.Int64Counter(
			"itinerary_generations_total",
			metric.WithDescription("Total number of itinerary generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generations_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("End-to-end duration of itinerary generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.RepairAttemptsTotal, err = meter.Int64Counter(
			"itinerary_json_repair_attempts_total",
			metric.WithDescription("Total number of secondary completion calls made to repair malformed JSON"),
			metric.WithUnit("{attempt}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_json_repair_attempts_total: %v", err)
		}

		m.EnrichmentFailuresTotal, err = meter.Int64Counter(
			"place_enrichment_failures_total",
			metric.WithDescription("Total number of per-place enrichment tasks that failed"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_enrichment_failures_total: %v", err)
		}

		m.LogUploadErrorsTotal, err = meter.Int64Counter(
			"interaction_log_upload_errors_total",
			metric.WithDescription("Total number of failed interaction log uploads"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create interaction_log_upload_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
