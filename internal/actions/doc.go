// Package actions provides the core cleanup logic of the ECR janitor.
// It walks every repository matching the configured prefix, classifies each
// tagged image, applies the retention policy, issues per-repository batch
// deletions, and publishes one consolidated inventory report at the end of
// the run.
//
// Key components:
//   - Clean: The cleanup driver orchestrating one full run.
//   - CleanParams: Prefix and report label for a run.
//   - Summary: Aggregated counts returned for metrics and notifications.
//
// The package integrates with the registry, retention, session, and report
// packages, using logrus for per-image decision logging.
package actions
