package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aruanda_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aruanda_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Temple operation counter
	TempleOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_temple_operations_total",
			Help: "Total number of temple directory operations",
		},
		[]string{"operation"}, // operation can be "create", "access", "update", "delete", etc.
	)

	// User directory operation counter
	UserOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_user_operations_total",
			Help: "Total number of user directory operations",
		},
		[]string{"operation"}, // "approve", "reject", "promote", "demote", ...
	)

	// Domain record operation counter by collection
	RecordOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_record_operations_total",
			Help: "Total number of domain record operations",
		},
		[]string{"collection", "operation"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "pending_approval", "tenant_inactive" etc.
	)

	// Snapshot write failures (memory store best-effort persistence)
	SnapshotErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aruanda_snapshot_errors_total",
			Help: "Total number of failed collection snapshot writes",
		},
		[]string{"collection"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aruanda_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aruanda_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active temples
	ActiveTemplesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aruanda_active_temples",
			Help: "Number of currently active temples",
		},
	)

	// Users per temple
	UsersPerTempleGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aruanda_users_per_temple",
			Help: "Number of users per temple",
		},
		[]string{"temple_id", "temple_name"},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aruanda_info",
			Help: "Information about the aruanda service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(TempleOperationCounter)
	prometheus.MustRegister(UserOperationCounter)
	prometheus.MustRegister(RecordOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(SnapshotErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTemplesGauge)
	prometheus.MustRegister(UsersPerTempleGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTempleOperation records a temple directory operation
func RecordTempleOperation(operation string) {
	TempleOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordUserOperation records a user directory operation
func RecordUserOperation(operation string) {
	UserOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordRecordOperation records a domain collection operation
func RecordRecordOperation(collection, operation string) {
	RecordOperationCounter.With(prometheus.Labels{
		"collection": collection,
		"operation":  operation,
	}).Inc()
}

// RecordSnapshotError records a failed collection snapshot write
func RecordSnapshotError(collection string) {
	SnapshotErrorCounter.With(prometheus.Labels{"collection": collection}).Inc()
}

// SetActiveTemples updates the active temples gauge
func SetActiveTemples(count int) {
	ActiveTemplesGauge.Set(float64(count))
}

// SetTempleUserCount updates the per-temple user gauge
func SetTempleUserCount(templeID, templeName string, count int) {
	UsersPerTempleGauge.With(prometheus.Labels{
		"temple_id":   templeID,
		"temple_name": templeName,
	}).Set(float64(count))
}
