// Package metrics exposes Prometheus collectors for recorded runs, notification
// outcomes, and HTTP latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/notify"
)

// Notification outcome labels.
const (
	OutcomeDisabled  = "disabled"
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	notifications *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waterrun_runs_recorded_total",
			Help: "Run events appended to the ledger, by mode.",
		}, []string{"mode"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waterrun_notifications_total",
			Help: "Notification attempts, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waterrun_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	m.registry.MustRegister(m.runs, m.notifications, m.httpDuration)
	return m
}

// Registry is what /metrics serves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunRecorded counts one appended run.
func (m *Metrics) RunRecorded(mode model.Mode) {
	m.runs.WithLabelValues(string(mode)).Inc()
}

// Notified counts one notification attempt.
func (m *Metrics) Notified(out notify.Outcome) {
	m.notifications.WithLabelValues(OutcomeLabel(out)).Inc()
}

// ObserveHTTP records the latency of a served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// OutcomeLabel maps a notification outcome to its label value.
func OutcomeLabel(out notify.Outcome) string {
	switch {
	case !out.Enabled:
		return OutcomeDisabled
	case out.Delivered:
		return OutcomeDelivered
	default:
		return OutcomeFailed
	}
}
