// Package meta carries build-time metadata about the janitor binary.
package meta

// Version is the janitor version, overridden at build time via
// -ldflags "-X github.com/opsforge/ecr-janitor/internal/meta.Version=...".
var Version = "v0.0.0-unknown"
