package types

import "time"

// ReportRow records one image that survived a cleanup run, either because it
// sits inside the stable retention window or because its tag is permanently
// ignored. Rows are accumulated across all repositories and flushed once at
// the end of the run.
type ReportRow struct {
	// Repository is the name of the owning repository.
	Repository string
	// Tag is the image's effective tag.
	Tag string
	// Window is the retention window that kept the image. It is zero for
	// ignored tags, which are kept irrespective of age and rendered with an
	// empty window column.
	Window time.Duration
	// Ignored marks tags from the ignore set, kept regardless of age.
	Ignored bool
	// Age is the image age at evaluation time, relative to the run's shared
	// UTC timestamp.
	Age time.Duration
	// PushedAt is the image's push timestamp as reported by the registry.
	PushedAt time.Time
}
