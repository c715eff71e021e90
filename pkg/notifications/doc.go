// Package notifications delivers one-line cleanup run summaries through
// Shoutrrr service URLs (Slack, email, Discord, and the other services the
// router supports).
//
// A Notifier built without URLs is a no-op, so callers can send
// unconditionally after each run.
package notifications
