// Package metrics provides functionality for tracking and exposing janitor
// run metrics. It integrates with Prometheus to monitor cleanup outcomes,
// including scanned, deleted, kept, and ignored image counts.
//
// Key components:
//   - Metric: Data points from one cleanup run.
//   - Metrics: Prometheus gauges and counters updated after each run.
//   - Default: Singleton handler registered on the default registry.
//
// Runs are sequential, so metrics are updated synchronously when a run
// completes; the scheduled mode exposes them over HTTP via promhttp.
package metrics
