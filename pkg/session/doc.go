// Package session holds the per-run state of a cleanup: the shared UTC
// timestamp all age comparisons use, the retention policy and ignore set in
// effect, the dry-run switch, and the report rows accumulated across
// repositories.
//
// A Session is created once per run and passed explicitly through the driver
// and evaluator calls; there are no ambient globals. The janitor is single
// threaded, so the accumulator needs no locking.
package session
