package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Onboarding metrics
	Classifications        *prometheus.CounterVec
	ClassificationAttempts prometheus.Histogram
	ClassificationDuration prometheus.Histogram
	DefaultObjects         *prometheus.CounterVec

	// Store metrics
	StoreOperations *prometheus.CounterVec
}

// NewCollector creates a new metrics collector on its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Total number of finished theme classifications",
			},
			[]string{"status"},
		),
		ClassificationAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_attempts",
				Help:      "Model calls needed per classification",
				Buckets:   []float64{1, 2, 3, 4, 5},
			},
		),
		ClassificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_duration_seconds",
				Help:      "Classification duration in seconds, retries included",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
			},
		),
		DefaultObjects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "default_objects_total",
				Help:      "Default-object step outcomes",
			},
			[]string{"theme", "outcome"},
		),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of store operations",
			},
			[]string{"operation", "status"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Classifications,
		c.ClassificationAttempts,
		c.ClassificationDuration,
		c.DefaultObjects,
		c.StoreOperations,
	)

	return c
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordClassification records one classification with its attempt count and latency
func (c *Collector) RecordClassification(_ context.Context, success bool, attempts int, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.Classifications.WithLabelValues(status).Inc()
	c.ClassificationAttempts.Observe(float64(attempts))
	c.ClassificationDuration.Observe(duration.Seconds())
}

// RecordDefaultObject records the outcome of a default-object step
func (c *Collector) RecordDefaultObject(_ context.Context, themeID int, outcome string) {
	c.DefaultObjects.WithLabelValues(strconv.Itoa(themeID), outcome).Inc()
}

// RecordStoreOperation records a store call
func (c *Collector) RecordStoreOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.StoreOperations.WithLabelValues(operation, status).Inc()
}
