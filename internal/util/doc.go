// Package util provides utility functions for janitor operations.
// It includes tools for slicing deletion batches and formatting durations.
//
// Key components:
//   - Chunk: Splits a slice into fixed-size batches.
//   - FormatDuration: Renders a duration as a human-readable age string.
//
// The helpers are shared by the registry client, the report renderer, and
// log output across the actions and cmd packages.
package util
