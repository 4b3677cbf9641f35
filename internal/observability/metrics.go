// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Run metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	MonthsComputed  prometheus.Counter
	TrialsSimulated prometheus.Counter
	AgentsSimulated prometheus.Counter

	// Job metrics
	JobsSubmitted  *prometheus.CounterVec
	JobsActive     prometheus.Gauge
	JobSubscribers prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
	UptimeSeconds     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenomics_lab"
	}

	return &Metrics{
		// Run metrics
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "total",
			Help:      "Total number of projection runs by mode and status",
		}, []string{"mode", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "duration_seconds",
			Help:      "Run execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),
		MonthsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "months_computed_total",
			Help:      "Total number of monthly states computed",
		}),
		TrialsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "trials_simulated_total",
			Help:      "Total number of Monte Carlo trials simulated",
		}),
		AgentsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runs",
			Name:      "agents_simulated_total",
			Help:      "Total number of agents simulated",
		}),

		// Job metrics
		JobsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "submitted_total",
			Help:      "Total number of jobs submitted by kind",
		}, []string{"kind"}),
		JobsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "active",
			Help:      "Number of jobs currently running",
		}),
		JobSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "subscribers",
			Help:      "Number of active progress subscriptions",
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

		// Reporting metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful run",
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

// RecordRun records a completed run with its duration.
func RecordRun(mode, status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(mode, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordMonthsComputed adds to the monthly state counter.
func RecordMonthsComputed(n int) {
	DefaultMetrics.MonthsComputed.Add(float64(n))
}

// RecordTrialsSimulated adds to the Monte Carlo trial counter.
func RecordTrialsSimulated(n int) {
	DefaultMetrics.TrialsSimulated.Add(float64(n))
}

// RecordAgentsSimulated adds to the agent counter.
func RecordAgentsSimulated(n int) {
	DefaultMetrics.AgentsSimulated.Add(float64(n))
}

// RecordJobSubmitted increments the submission counter and active gauge.
func RecordJobSubmitted(kind string) {
	DefaultMetrics.JobsSubmitted.WithLabelValues(kind).Inc()
	DefaultMetrics.JobsActive.Inc()
}

// RecordJobFinished decrements the active job gauge.
func RecordJobFinished() {
	DefaultMetrics.JobsActive.Dec()
}

// RecordSubscriberChange tracks progress subscriptions.
func RecordSubscriberChange(delta int) {
	DefaultMetrics.JobSubscribers.Add(float64(delta))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated increments the report counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordSuccessfulRun updates the health timestamp.
func RecordSuccessfulRun(unixSeconds float64) {
	DefaultMetrics.LastSuccessfulRun.Set(unixSeconds)
}

// RecordUptime adds elapsed seconds to the uptime counter.
func RecordUptime(seconds float64) {
	DefaultMetrics.UptimeSeconds.Add(seconds)
}

// SetDBConnections updates the per-state connection gauges for one
// database.
func SetDBConnections(database string, acquired, idle, total int) {
	g := DefaultMetrics.DBConnections
	g.WithLabelValues(database, "acquired").Set(float64(acquired))
	g.WithLabelValues(database, "idle").Set(float64(idle))
	g.WithLabelValues(database, "total").Set(float64(total))
}
