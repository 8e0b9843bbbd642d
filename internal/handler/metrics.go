package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the retrieval backend.
var Metrics = struct {
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	UpstreamRequests  *prometheus.CounterVec
	QuotaFallbacks    prometheus.Counter
	ResponseCacheHits prometheus.Counter
	ResponseCacheMiss prometheus.Counter
	PoolRefreshes     prometheus.Counter
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics() {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewphims_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reviewphims_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewphims_upstream_requests_total",
			Help: "Upstream retrievals served, by endpoint and data source.",
		},
		[]string{"endpoint", "source"},
	)

	Metrics.QuotaFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewphims_quota_fallbacks_total",
			Help: "Requests served by the crawler after API quota exhaustion.",
		},
	)

	Metrics.ResponseCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewphims_response_cache_hits_total",
			Help: "Total Redis response cache hits.",
		},
	)

	Metrics.ResponseCacheMiss = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewphims_response_cache_misses_total",
			Help: "Total Redis response cache misses.",
		},
	)

	Metrics.PoolRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewphims_pool_refreshes_total",
			Help: "Completed bulk video pool refills.",
		},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.UpstreamRequests,
		Metrics.QuotaFallbacks,
		Metrics.ResponseCacheHits,
		Metrics.ResponseCacheMiss,
		Metrics.PoolRefreshes,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion. Routes
// are all static, so anything unknown collapses into one bucket.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/health/"):
		return path
	default:
		return "other"
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.Context())
		return nil
	}
}
