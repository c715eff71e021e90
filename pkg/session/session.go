package session

import (
	"time"

	"github.com/opsforge/ecr-janitor/pkg/retention"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

// Session carries the shared state of one cleanup run.
type Session struct {
	now    time.Time
	policy retention.Policy
	ignore retention.IgnoreSet
	dryRun bool
	rows   []types.ReportRow
}

// New creates a Session for a run starting now, with the timestamp captured
// once in UTC so every age comparison in the run is consistent.
func New(policy retention.Policy, ignore retention.IgnoreSet, dryRun bool) *Session {
	return NewAt(time.Now().UTC(), policy, ignore, dryRun)
}

// NewAt creates a Session pinned to an explicit timestamp. It is the seam
// used by tests that need deterministic ages.
func NewAt(now time.Time, policy retention.Policy, ignore retention.IgnoreSet, dryRun bool) *Session {
	return &Session{
		now:    now,
		policy: policy,
		ignore: ignore,
		dryRun: dryRun,
	}
}

// Now returns the run's shared UTC timestamp.
func (s *Session) Now() time.Time {
	return s.now
}

// Policy returns the retention windows in effect for the run.
func (s *Session) Policy() retention.Policy {
	return s.policy
}

// Ignore returns the set of tags exempt from deletion.
func (s *Session) Ignore() retention.IgnoreSet {
	return s.ignore
}

// DryRun reports whether deletions are computed and logged but not executed.
func (s *Session) DryRun() bool {
	return s.dryRun
}

// Age returns the age of an image pushed at the given time, relative to the
// run's shared timestamp.
func (s *Session) Age(pushedAt time.Time) time.Duration {
	return s.now.Sub(pushedAt)
}

// AddRow appends a report row to the run's accumulator.
func (s *Session) AddRow(row types.ReportRow) {
	s.rows = append(s.rows, row)
}

// Rows returns the report rows accumulated so far, in insertion order.
func (s *Session) Rows() []types.ReportRow {
	return s.rows
}
