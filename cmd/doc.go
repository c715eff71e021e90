// Package cmd contains the command-line interface (CLI) definition and
// execution logic for the ECR janitor. It provides the root command,
// orchestrating flag parsing, AWS client construction, one-shot and
// scheduled cleanup runs, metrics exposure, and run summary notifications.
//
// Key components:
//   - rootCmd: Root command wiring flags to cleanup runs.
//   - Execute: Entry point called from main.go.
//   - runMain: Core execution after configuration validation.
//
// The package integrates with the actions, flags, logging, registry,
// report, metrics, and notifications packages, using Cobra for CLI parsing
// and logrus for logging.
package cmd
