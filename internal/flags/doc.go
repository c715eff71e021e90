// Package flags manages command-line flags and environment variables for
// janitor configuration.
//
// Every flag can also be set through a JANITOR_* environment variable bound
// via viper; explicit flags take precedence. The package also owns logrus
// setup (level, format, color handling) driven by the logging flags.
package flags
