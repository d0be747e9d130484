package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	backendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_calls_total",
			Help: "Total number of calls to the archive backend",
		},
		[]string{"endpoint", "status"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_call_duration_seconds",
			Help:    "Archive backend call duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	searchFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_fetches_total",
			Help: "Search fetches by kind (new, page) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	listCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_cache_lookups_total",
			Help: "Tag and sector list cache lookups",
		},
		[]string{"list", "cache_hit"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_uploads_total",
			Help: "Report uploads by outcome",
		},
		[]string{"outcome"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RecordBackendCall matches client.CallObserver. status 0 means the
// backend could not be reached.
func RecordBackendCall(endpoint string, status int, duration time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "network_error"
	}
	backendCallsTotal.WithLabelValues(endpoint, label).Inc()
	backendCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSearch counts one search fetch. A page fetch is anything after the
// first page.
func RecordSearch(page bool, err error) {
	kind := "new"
	if page {
		kind = "page"
	}
	searchFetchesTotal.WithLabelValues(kind, outcome(err)).Inc()
}

func RecordListLookup(list string, hit bool) {
	listCacheLookupsTotal.WithLabelValues(list, strconv.FormatBool(hit)).Inc()
}

func RecordUpload(err error) {
	uploadsTotal.WithLabelValues(outcome(err)).Inc()
}

func RecordRateLimited(action string) {
	rateLimitedTotal.WithLabelValues(action).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
