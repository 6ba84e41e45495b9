// Package metric provides Prometheus metrics for contacts-cli.
//
//   - prometheus.go: private registry with the client's counters and
//     text exposition
//   - collector.go: collector reporting live session state
//
// The CLI has no listener; metrics are printed on demand by the
// `metrics` command.
package metric
