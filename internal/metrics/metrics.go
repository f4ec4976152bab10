// Package metrics provides Prometheus metrics collection for the assembly service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ExpansionsTotal tracks set expansions by outcome (ok or partial).
	ExpansionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "set_expansions_total",
			Help: "Total number of order set expansions",
		},
		[]string{"status"},
	)

	// ExpansionIssuesTotal tracks isolated expansion issues by kind.
	ExpansionIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "set_expansion_issues_total",
			Help: "Total number of isolated set expansion issues",
		},
		[]string{"kind"},
	)

	// PlansTotal tracks box planning runs by mode and outcome.
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "box_plans_total",
			Help: "Total number of box planning runs",
		},
		[]string{"mode", "outcome"},
	)

	// ScanEventsTotal tracks routed scan events by outcome.
	ScanEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_events_total",
			Help: "Total number of routed scan events",
		},
		[]string{"outcome"},
	)

	// WeightSamplesTotal tracks classified scale samples by status.
	WeightSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weight_samples_total",
			Help: "Total number of classified scale samples",
		},
		[]string{"status"},
	)

	// SessionsCreatedTotal tracks session creation attempts by outcome.
	SessionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_sessions_created_total",
			Help: "Total number of assembly session creation attempts",
		},
		[]string{"outcome"},
	)

	// ActiveSessions tracks the number of live assembly sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assembly_sessions_active",
			Help: "Number of live assembly sessions",
		},
	)

	// ResolverCacheOperationsTotal tracks product resolver cache hits and misses.
	ResolverCacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_cache_operations_total",
			Help: "Total number of product resolver cache operations",
		},
		[]string{"operation", "result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordResolverCache records a product resolver cache operation.
func RecordResolverCache(operation, result string) {
	ResolverCacheOperationsTotal.WithLabelValues(operation, result).Inc()
}
