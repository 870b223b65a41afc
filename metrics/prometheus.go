package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	storeQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ktrend_store_queries_total",
			Help: "Total number of upstream store queries by table and outcome.",
		},
		[]string{"table", "status"},
	)
	storeQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ktrend_store_query_duration_seconds",
			Help:    "Histogram of upstream store query durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"table"},
	)
	assemblyStrategyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ktrend_assembly_strategy_total",
			Help: "Which strategy produced each assembled response.",
		},
		[]string{"assembler", "strategy"},
	)
	snapshotAgeDays = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ktrend_latest_snapshot_age_days",
			Help: "Days between now and the latest ranking snapshot date per platform.",
		},
		[]string{"platform"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(storeQueriesTotal)
	prometheus.MustRegister(storeQueryDuration)
	prometheus.MustRegister(assemblyStrategyTotal)
	prometheus.MustRegister(snapshotAgeDays)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordQuery records one store round trip.
func RecordQuery(table, status string, duration time.Duration) {
	storeQueriesTotal.WithLabelValues(table, status).Inc()
	storeQueryDuration.WithLabelValues(table).Observe(duration.Seconds())
}

func RecordStrategy(assembler, strategy string) {
	assemblyStrategyTotal.WithLabelValues(assembler, strategy).Inc()
}

// SetSnapshotAge publishes how stale the newest ranking date of a platform is.
func SetSnapshotAge(platform string, days float64) {
	snapshotAgeDays.WithLabelValues(platform).Set(days)
}

func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
