package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Catalog client metrics
	CatalogRequests prometheus.CounterVec
	CatalogRetries  prometheus.CounterVec
	CatalogErrors   prometheus.CounterVec

	// Recommendation metrics
	RecommendationsServed prometheus.CounterVec
	TrendingFallbacks     prometheus.CounterVec
	ResolutionOutcomes    prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			CatalogRequests: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "catalog_requests_total",
					Help: "Total number of catalog API requests",
				},
				[]string{"endpoint"},
			),
			CatalogRetries: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "catalog_retries_total",
					Help: "Total number of catalog request retries",
				},
				[]string{"endpoint"},
			),
			CatalogErrors: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "catalog_errors_total",
					Help: "Total catalog requests that failed after all retries",
				},
				[]string{"endpoint"},
			),
			RecommendationsServed: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recommendations_served_total",
					Help: "Total recommendation items returned to users",
				},
				[]string{"source"},
			),
			TrendingFallbacks: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "trending_fallbacks_total",
					Help: "Times the recommender fell back to the trending feed",
				},
				[]string{"reason"},
			),
			ResolutionOutcomes: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "title_resolution_outcomes_total",
					Help: "Fuzzy title resolution outcomes",
				},
				[]string{"outcome"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
