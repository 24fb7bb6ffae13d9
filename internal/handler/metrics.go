package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

// Metrics holds all Prometheus collectors for the board API.
var Metrics = struct {
	VotesTotal       *prometheus.CounterVec
	SubmissionsTotal prometheus.Counter
	SnapshotsTotal   prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	FeedSubscribers  prometheus.GaugeFunc
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool, bus *service.Broadcaster) {
	Metrics.VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featurevote_votes_total",
			Help: "Total upvote toggles, by action (add/remove).",
		},
		[]string{"action"},
	)

	Metrics.SubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "featurevote_submissions_total",
			Help: "Total feature requests submitted.",
		},
	)

	Metrics.SnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "featurevote_feed_snapshots_total",
			Help: "Total snapshot events delivered to feed subscribers.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "featurevote_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "featurevote_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	if bus != nil {
		Metrics.FeedSubscribers = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "featurevote_feed_subscribers",
				Help: "Number of live feed subscribers.",
			},
			func() float64 {
				return float64(bus.Subscribers())
			},
		)
		prometheus.MustRegister(Metrics.FeedSubscribers)
	}

	// DB pool gauges read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "featurevote_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "featurevote_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.VotesTotal,
		Metrics.SubmissionsTotal,
		Metrics.SnapshotsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(): Fiber
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

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case path == "/api/features/feed":
		return path
	case strings.HasPrefix(path, "/api/admin/features/"):
		return "/api/admin/features/:featureId/status"
	case strings.HasPrefix(path, "/api/features/") && strings.HasSuffix(path, "/vote"):
		return "/api/features/:featureId/vote"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
