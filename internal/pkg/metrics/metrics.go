package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wildsight",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wildsight",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Map query metrics, labelled by entity kind (sighting, landmark, ...)
	// and the sync mode the viewport resolved to.
	MapQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "map",
		Name:      "queries_total",
		Help:      "Total map viewport queries served",
	}, []string{"kind", "mode"})

	MapQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wildsight",
		Subsystem: "map",
		Name:      "query_duration_seconds",
		Help:      "Duration of map viewport queries",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"kind"})

	MapResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wildsight",
		Subsystem: "map",
		Name:      "query_results",
		Help:      "Number of records returned per map viewport query",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"kind"})

	// Retention metrics
	RetentionDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "retention",
		Name:      "rows_deleted_total",
		Help:      "Total rows removed by retention passes",
	}, []string{"table"})

	RetentionPassErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "retention",
		Name:      "pass_errors_total",
		Help:      "Total retention passes that aborted with an error",
	}, []string{"pass"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildsight",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wildsight",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildsight",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildsight",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wildsight",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// ObserveMapQuery records one served viewport query.
func ObserveMapQuery(kind, mode string, duration time.Duration, results int) {
	MapQueries.WithLabelValues(kind, mode).Inc()
	MapQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	MapResults.WithLabelValues(kind).Observe(float64(results))
}
