package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projectmatch_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_signups_total",
		Help: "Completed signups by user type",
	}, []string{"type"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	domainOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_operations_total",
		Help: "Business operations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"path"})

	workerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmatch_worker_runs_total",
		Help: "Housekeeping task runs by task and result",
	}, []string{"task", "result"})

	dbConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "projectmatch_db_connections",
		Help: "Postgres pool connections by state",
	}, []string{"state"})

	dbWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projectmatch_db_wait_count",
		Help: "Total number of connections waited for",
	})

	identityCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projectmatch_identity_cache_entries",
		Help: "Cached token identities after the last sweep",
	})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "projectmatch_circuit_breaker_state",
		Help: "Circuit state per dependency (0 closed, 1 open, 2 half-open)",
	}, []string{"dependency"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSignup counts a registered account.
func ObserveSignup(userType string) {
	signups.WithLabelValues(userType).Inc()
}

// ObserveLogin counts a login attempt; result is "success" or "failure".
func ObserveLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// ObserveOperation counts a mutation such as ("project", "register", "success").
func ObserveOperation(entity, operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	domainOperations.WithLabelValues(entity, operation, result).Inc()
}

// ObserveRateLimited counts a request rejected by the limiter
func ObserveRateLimited(path string) {
	rateLimited.WithLabelValues(path).Inc()
}

// ObserveWorkerRun counts one housekeeping task run
func ObserveWorkerRun(task string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	workerRuns.WithLabelValues(task, result).Inc()
}

// ObserveDBPool publishes a snapshot of the connection pool
func ObserveDBPool(stats sql.DBStats) {
	dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	dbWaitCount.Set(float64(stats.WaitCount))
}

// SetIdentityCacheEntries records the identity cache size
func SetIdentityCacheEntries(n int) {
	identityCacheEntries.Set(float64(n))
}

// SetBreakerState records a circuit breaker state as its numeric value
func SetBreakerState(dependency string, state int) {
	breakerState.WithLabelValues(dependency).Set(float64(state))
}
