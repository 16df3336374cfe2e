package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the query core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	queryDuration *prometheus.HistogramVec
	remoteErrors  *prometheus.CounterVec
	queriesTotal  *prometheus.CounterVec
	sessionEvents *prometheus.CounterVec
	recordsListed prometheus.Counter
}

// QuerySnapshot summarizes cumulative query activity, read back from the
// Prometheus counters.
type QuerySnapshot struct {
	TotalQueries  int64   `json:"total_queries"`
	ErrorRate     float64 `json:"error_rate"`
	RecordsListed int64   `json:"records_listed"`
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pixquery_operation_duration_seconds",
				Help:    "Duration of operations by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		remoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixquery_remote_errors_total",
				Help: "Total errors from remote collaborators.",
			},
			[]string{"endpoint"},
		),
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixquery_queries_total",
				Help: "Total queries processed.",
			},
			[]string{"status"},
		),
		sessionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixquery_session_events_total",
				Help: "Session lifecycle events.",
			},
			[]string{"event"},
		),
		recordsListed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pixquery_records_listed_total",
				Help: "Total transaction records returned by queries.",
			},
		),
	}
}

// RecordDuration records the duration of an operation.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	m.queryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRemoteError increments the remote error counter for an endpoint.
func (m *Metrics) IncrRemoteError(endpoint string) {
	m.remoteErrors.WithLabelValues(endpoint).Inc()
}

// IncrQuery increments the query counter with a status label.
func (m *Metrics) IncrQuery(status string) {
	m.queriesTotal.WithLabelValues(status).Inc()
}

// IncrSessionEvent counts a session lifecycle event (login, logout,
// restore, invalidated).
func (m *Metrics) IncrSessionEvent(event string) {
	m.sessionEvents.WithLabelValues(event).Inc()
}

// AddRecordsListed counts records returned by a successful query.
func (m *Metrics) AddRecordsListed(n int) {
	m.recordsListed.Add(float64(n))
}

// GetQuerySnapshot returns cumulative query stats.
// Note: Prometheus counters expose cumulative values.
func (m *Metrics) GetQuerySnapshot() *QuerySnapshot {
	success := getCounterValue(m.queriesTotal, "success")
	failed := getCounterValue(m.queriesTotal, "error")
	total := success + failed

	errorRate := float64(0)
	if total > 0 {
		errorRate = failed / total
	}

	listed := float64(0)
	pm := &dto.Metric{}
	if err := m.recordsListed.Write(pm); err == nil && pm.Counter != nil && pm.Counter.Value != nil {
		listed = *pm.Counter.Value
	}

	return &QuerySnapshot{
		TotalQueries:  int64(total),
		ErrorRate:     errorRate,
		RecordsListed: int64(listed),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
