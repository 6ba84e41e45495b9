// Package metric provides Prometheus metrics for contacts-cli.
package metric

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "contacts"

// Login outcomes used as label values.
const (
	LoginSuccess       = "success"
	LoginRejected      = "rejected"
	LoginUnavailable   = "unavailable"
	LoginPersistFailed = "persist_failed"
	LoginInProgress    = "in_progress"
	LoginInvalid       = "invalid"
)

// Registry holds all client metrics on a private Prometheus registry.
//
// All methods are safe on a nil *Registry and then do nothing.
type Registry struct {
	reg *prometheus.Registry

	loginAttempts *prometheus.CounterVec
	logouts       prometheus.Counter
	navigations   *prometheus.CounterVec
	apiDuration   *prometheus.HistogramVec
}

// NewRegistry creates the registry and registers every metric.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logouts_total",
			Help:      "Completed logouts",
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "navigations_total",
			Help:      "Resolved navigation attempts by terminal state",
		}, []string{"state"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Remote API request latency",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "status"}),
	}

	r.reg.MustRegister(r.loginAttempts, r.logouts, r.navigations, r.apiDuration)
	return r
}

// ObserveLogin counts a login attempt with the given outcome.
func (r *Registry) ObserveLogin(outcome string) {
	if r == nil {
		return
	}
	r.loginAttempts.WithLabelValues(outcome).Inc()
}

// IncLogout counts a logout.
func (r *Registry) IncLogout() {
	if r == nil {
		return
	}
	r.logouts.Inc()
}

// ObserveNavigation counts a navigation attempt by terminal state.
func (r *Registry) ObserveNavigation(state string) {
	if r == nil {
		return
	}
	r.navigations.WithLabelValues(state).Inc()
}

// ObserveAPIRequest records the latency of a remote API call.
// status is the HTTP status code, or "error" for transport failures.
func (r *Registry) ObserveAPIRequest(method, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.apiDuration.WithLabelValues(method, status).Observe(d.Seconds())
}

// Register adds an extra collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	if r == nil {
		return nil
	}
	return r.reg.Register(c)
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// WriteText writes every metric family in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
