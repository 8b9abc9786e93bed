// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Forecast metrics
	ForecastRunsTotal    *prometheus.CounterVec
	ForecastDuration     *prometheus.HistogramVec
	ChunksPredicted      prometheus.Counter
	ChunkFailures        prometheus.Counter
	DatesPredicted       prometheus.Counter
	CompletenessObserved prometheus.Histogram

	// Predictor metrics
	PredictorCallLatency prometheus.Histogram
	PredictorCallErrors  prometheus.Counter

	// Ingestion metrics
	PointsIngested  prometheus.Counter
	IngestionErrors *prometheus.CounterVec

	// Snapshot metrics
	SnapshotRowsWritten prometheus.Counter
	SnapshotWriteErrors prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulForecast prometheus.Gauge
	LastSuccessfulIngest   prometheus.Gauge
	UptimeSeconds          prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "categoryforecast"
	}

	return &Metrics{
		// Forecast metrics
		ForecastRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "runs_total",
			Help:      "Total number of forecast runs by mode and status",
		}, []string{"mode", "status"}),
		ForecastDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "duration_seconds",
			Help:      "Forecast run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"mode"}),
		ChunksPredicted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "chunks_predicted_total",
			Help:      "Total number of missing-date chunks predicted",
		}),
		ChunkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "chunk_failures_total",
			Help:      "Total number of chunk predictions that failed and were skipped",
		}),
		DatesPredicted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "dates_predicted_total",
			Help:      "Total number of calendar dates filled by prediction",
		}),
		CompletenessObserved: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "completeness_pct",
			Help:      "Completeness percentage of answered periods",
			Buckets:   []float64{0, 10, 25, 50, 75, 90, 99, 100},
		}),

		// Predictor metrics
		PredictorCallLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "predictor",
			Name:      "call_latency_seconds",
			Help:      "Predictor invocation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PredictorCallErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predictor",
			Name:      "call_errors_total",
			Help:      "Total number of failed predictor invocations",
		}),

		// Ingestion metrics
		PointsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "points_ingested_total",
			Help:      "Total number of sales points ingested",
		}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by type",
		}, []string{"error_type"}),

		// Snapshot metrics
		SnapshotRowsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "rows_written_total",
			Help:      "Total number of forecast snapshot rows written",
		}),
		SnapshotWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "write_errors_total",
			Help:      "Total number of failed snapshot writes",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		DBConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "connections",
			Help:      "Number of database connections by state",
		}, []string{"database", "state"}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		// Health metrics
		LastSuccessfulForecast: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_forecast_timestamp",
			Help:      "Unix timestamp of last successful forecast run",
		}),
		LastSuccessfulIngest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingest_timestamp",
			Help:      "Unix timestamp of last successful ingestion",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordForecastRun records one completed forecast run.
func RecordForecastRun(mode, status string, durationSeconds float64) {
	DefaultMetrics.ForecastRunsTotal.WithLabelValues(mode, status).Inc()
	DefaultMetrics.ForecastDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordChunkPredicted increments the predicted-chunk counter along with
// the number of dates it covered.
func RecordChunkPredicted(dates int) {
	DefaultMetrics.ChunksPredicted.Inc()
	DefaultMetrics.DatesPredicted.Add(float64(dates))
}

// RecordChunkFailure increments the skipped-chunk counter.
func RecordChunkFailure() {
	DefaultMetrics.ChunkFailures.Inc()
}

// RecordCompleteness observes the completeness of an answered period.
func RecordCompleteness(pct float64) {
	DefaultMetrics.CompletenessObserved.Observe(pct)
}

// RecordPredictorCall records predictor invocation metrics.
func RecordPredictorCall(seconds float64, err error) {
	DefaultMetrics.PredictorCallLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.PredictorCallErrors.Inc()
	}
}

// RecordPointsIngested adds to the ingested points counter.
func RecordPointsIngested(n int) {
	DefaultMetrics.PointsIngested.Add(float64(n))
}

// RecordIngestionError records an ingestion error by type.
func RecordIngestionError(errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(errorType).Inc()
}

// RecordIngestSuccess marks the time of the last successful ingestion run.
func RecordIngestSuccess(ts time.Time) {
	DefaultMetrics.LastSuccessfulIngest.Set(float64(ts.Unix()))
}

// StartUptimeCounter increments the uptime counter once per second until
// ctx is cancelled.
func StartUptimeCounter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				DefaultMetrics.UptimeSeconds.Inc()
			}
		}
	}()
}

// RecordSnapshotWrite records a snapshot batch write.
func RecordSnapshotWrite(rows int, err error) {
	if err != nil {
		DefaultMetrics.SnapshotWriteErrors.Inc()
		return
	}
	DefaultMetrics.SnapshotRowsWritten.Add(float64(rows))
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, status int, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
