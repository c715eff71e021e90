// Package logging provides functions for logging startup information of the
// janitor. It handles the initialization message, retention policy summary,
// and schedule information display.
package logging

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opsforge/ecr-janitor/internal/meta"
	"github.com/opsforge/ecr-janitor/internal/util"
	"github.com/opsforge/ecr-janitor/pkg/retention"
)

// StartupInfo aggregates the configuration echoed at startup.
type StartupInfo struct {
	// Prefix is the repository name prefix of the run.
	Prefix string
	// Policy holds the retention windows in effect.
	Policy retention.Policy
	// IgnoreTags lists the tags exempt from deletion.
	IgnoreTags []string
	// DryRun reports whether deletions will be executed.
	DryRun bool
	// Schedule is the cron expression for periodic runs, empty for one-shot.
	Schedule string
}

// WriteStartupMessage logs the janitor's version and effective configuration
// so operators can verify a run before it touches the registry.
//
// Parameters:
//   - c: The cobra.Command instance, providing access to --no-startup-message.
//   - sched: The time.Time of the first scheduled run, or zero for one-shot runs.
//   - info: The effective configuration of the run.
func WriteStartupMessage(c *cobra.Command, sched time.Time, info StartupInfo) {
	noStartupMessage, _ := c.PersistentFlags().GetBool("no-startup-message")
	if noStartupMessage {
		return
	}

	startupLog := logrus.NewEntry(logrus.StandardLogger())

	startupLog.Info("ECR janitor ", meta.Version)

	startupLog.WithFields(logrus.Fields{
		"filter_prefix":   info.Prefix,
		"stable_window":   util.FormatDuration(info.Policy.StableWindow),
		"unstable_window": util.FormatDuration(info.Policy.UnstableWindow),
		"ignore_tags":     strings.Join(info.IgnoreTags, ", "),
	}).Info("Applying retention policy")

	if info.DryRun {
		startupLog.Info("Running in dry-run mode: no images will be deleted")
	}

	LogScheduleInfo(startupLog, sched, info.Schedule)
}

// LogScheduleInfo logs information about the scheduling or run mode
// configuration: a scheduled run with timing details, or a one-shot run.
func LogScheduleInfo(log *logrus.Entry, sched time.Time, schedule string) {
	if sched.IsZero() || schedule == "" {
		log.Info("Running a one time cleanup.")

		return
	}

	until := util.FormatDuration(time.Until(sched))
	log.Info("Scheduling first run: " + sched.Format("2006-01-02 15:04:05 -0700 MST"))
	log.Info("Note that the first check will be performed in " + until)
}
