// Package metric provides Prometheus metrics for contacts-cli.
package metric

import "github.com/prometheus/client_golang/prometheus"

// SessionCollector reports whether the session store currently holds a token.
type SessionCollector struct {
	authenticated func() bool
	desc          *prometheus.Desc
}

// NewSessionCollector creates a collector reading state from fn.
func NewSessionCollector(fn func() bool) *SessionCollector {
	return &SessionCollector{
		authenticated: fn,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "authenticated"),
			"1 when the session store holds a token, 0 otherwise",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	v := 0.0
	if c.authenticated() {
		v = 1
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v)
}
