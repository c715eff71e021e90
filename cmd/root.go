package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opsforge/ecr-janitor/internal/actions"
	"github.com/opsforge/ecr-janitor/internal/flags"
	"github.com/opsforge/ecr-janitor/internal/logging"
	"github.com/opsforge/ecr-janitor/pkg/metrics"
	"github.com/opsforge/ecr-janitor/pkg/notifications"
	"github.com/opsforge/ecr-janitor/pkg/registry"
	"github.com/opsforge/ecr-janitor/pkg/report"
	"github.com/opsforge/ecr-janitor/pkg/retention"
	"github.com/opsforge/ecr-janitor/pkg/session"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

// requiredFlagsMessage is printed to standard output when the janitor is
// invoked without the two flags that guard against mass deletion.
const requiredFlagsMessage = `
Missing required arguments --ignore-tags and --filter-prefix

You must specify --ignore-tags and --filter-prefix to avoid accidentally
pruning a stable Docker tag which is being actively used.  This will
make you VERY SAD.  So pay attention.

First, which filter-prefix do you want?  It is the repository name
prefix the janitor is allowed to clean up; repositories outside the
prefix are never touched.

Second, which ignore-tags do you want?  List the tags your build
configuration currently references, comma separated; they are kept
forever regardless of age.
`

// dryRun determines whether deletions are computed and logged but not
// executed. It is set during preRun via the --dry-run flag or the
// JANITOR_DRY_RUN environment variable.
var dryRun bool

// stableWindow is the retention window for stable tags, derived in preRun
// from --keep-stable-days.
var stableWindow time.Duration

// unstableWindow is the retention window for unstable tags, derived in
// preRun from --keep-unstable-days.
var unstableWindow time.Duration

// filterPrefix is the repository name prefix the run operates on. The
// janitor refuses to run with an empty prefix.
var filterPrefix string

// ignoreTags lists the tags never deleted regardless of age. The janitor
// refuses to run with an empty list.
var ignoreTags []string

// scheduleSpec holds the cron expression for periodic runs, empty for a
// single run. It is populated during preRun from the --schedule flag or the
// JANITOR_SCHEDULE environment variable.
var scheduleSpec string

// metricsPort is the port exposing Prometheus metrics while running on a
// schedule, empty to disable the listener.
var metricsPort string

// awsRegion is the region of the registry and the report bucket.
var awsRegion string

// registryID is the AWS account ID owning the registry, empty to use the
// account of the ambient credentials.
var registryID string

// reportBucket is the S3 bucket receiving the inventory report, empty to
// disable publishing.
var reportBucket string

// reportLabel keys the report object; it defaults to the filter prefix.
var reportLabel string

// notifier delivers run summaries to the configured Shoutrrr URLs. It is
// initialized in preRun from the --notification-url flag.
var notifier *notifications.Notifier

// rootCmd represents the root command for the janitor CLI.
var rootCmd = NewRootCommand()

// NewRootCommand creates and configures the root command for the janitor CLI.
//
// Returns:
//   - *cobra.Command: A pointer to the fully configured root command, ready
//     for flag registration and execution.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "ecr-janitor",
		Short:  "Deletes old Docker tags from an ECR registry",
		Long:   "\nECR janitor scans the repositories of a registry, deletes images whose age\nexceeds the retention window of their tag class, and publishes an HTML\ninventory of the kept images.",
		Run:    run,
		PreRun: preRun,
		Args:   cobra.NoArgs,
	}
}

// init registers command-line flags for the root command during package
// initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterAWSFlags(rootCmd)
	flags.RegisterRetentionFlags(rootCmd)
	flags.RegisterSystemFlags(rootCmd)
}

// Execute runs the root command and manages any errors encountered during
// its execution. It is the primary entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Failed to execute root command")
	}
}

// preRun prepares the environment and configuration before the main command
// execution begins.
//
// It processes flag aliases, configures logging based on verbosity settings,
// reads the retention policy and AWS wiring into package state, and
// initializes the notification system.
//
// Parameters:
//   - cmd: The cobra.Command instance being executed, providing access to parsed flags.
//   - _: A slice of string arguments (unused, the command takes none).
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.PersistentFlags()
	flags.ProcessFlagAliases(flagsSet)

	if err := flags.SetupLogging(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}

	var rawIgnoreTags []string
	dryRun, stableWindow, unstableWindow, filterPrefix, rawIgnoreTags = flags.ReadRetentionFlags(cmd)

	// Drop empty entries a trailing comma would produce, so the required
	// flag validation only accepts real tags.
	ignoreTags = ignoreTags[:0]
	for _, tag := range rawIgnoreTags {
		if tag != "" {
			ignoreTags = append(ignoreTags, tag)
		}
	}

	if stableWindow < 0 || unstableWindow < 0 {
		logrus.Fatal("Please specify non-negative values for the retention windows.")
	}

	scheduleSpec, _ = flagsSet.GetString("schedule")
	metricsPort, _ = flagsSet.GetString("metrics-port")
	awsRegion, _ = flagsSet.GetString("aws-region")
	registryID, _ = flagsSet.GetString("registry-id")
	reportBucket, _ = flagsSet.GetString("report-bucket")

	reportLabel, _ = flagsSet.GetString("report-label")
	if reportLabel == "" {
		reportLabel = filterPrefix
	}

	notificationURLs, _ := flagsSet.GetStringSlice("notification-url")

	var err error

	notifier, err = notifications.NewNotifier(notificationURLs)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize notifications")
	}
}

// run executes the main janitor logic based on parsed command-line flags.
//
// It refuses to run without the required safety flags, printing guidance to
// standard output and exiting non-zero before any network call, then
// delegates to runMain and exits with its status code.
//
// Parameters:
//   - c: The cobra.Command instance being executed, providing access to parsed flags.
//   - _: A slice of string arguments (unused, the command takes none).
func run(c *cobra.Command, _ []string) {
	if !validateRequiredFlags(os.Stdout) {
		os.Exit(1)
	}

	if exitCode := runMain(c); exitCode != 0 {
		logrus.WithField("exit_code", exitCode).Debug("Exiting with non-zero status")
		os.Exit(exitCode)
	}
}

// validateRequiredFlags checks the two flags that guard against mass
// deletion, writing the guidance message to out when they are missing.
//
// Returns:
//   - bool: True if both --filter-prefix and --ignore-tags are set.
func validateRequiredFlags(out io.Writer) bool {
	if filterPrefix == "" || len(ignoreTags) == 0 {
		fmt.Fprint(out, requiredFlagsMessage)

		return false
	}

	return true
}

// runMain contains the core janitor logic after early exits are handled.
//
// It builds the AWS session and clients, then performs either a single
// cleanup run or starts the cron scheduler for periodic runs.
//
// Parameters:
//   - c: The cobra.Command instance, providing access to flags for startup messaging.
//
// Returns:
//   - int: An exit code (0 for success, 1 for failure) used to terminate the program.
func runMain(c *cobra.Command) int {
	awsSession, err := awssession.NewSession(&aws.Config{Region: aws.String(awsRegion)})
	if err != nil {
		logrus.WithError(err).Error("Failed to create AWS session")

		return 1
	}

	client := registry.NewECRClient(awsSession, registryID)

	var publisher types.ReportPublisher
	if reportBucket != "" {
		publisher = report.NewS3Publisher(awsSession, reportBucket)
	} else {
		logrus.Warn("No --report-bucket configured, the inventory report will not be published")
	}

	if scheduleSpec != "" {
		return runOnSchedule(c, client, publisher)
	}

	logging.WriteStartupMessage(c, time.Time{}, startupInfo())

	return runCleanup(client, publisher)
}

// runCleanup performs one cleanup run with a fresh session, registering
// metrics and sending the summary notification afterwards.
func runCleanup(client types.RegistryClient, publisher types.ReportPublisher) int {
	sess := session.New(
		retention.Policy{StableWindow: stableWindow, UnstableWindow: unstableWindow},
		retention.NewIgnoreSet(ignoreTags...),
		dryRun,
	)

	summary, err := actions.Clean(client, publisher, sess, actions.CleanParams{
		Prefix: filterPrefix,
		Label:  reportLabel,
	})

	metrics.Default().RegisterRun(&metrics.Metric{
		Repositories: summary.Repositories,
		Scanned:      summary.Scanned,
		Deleted:      summary.Deleted,
		Kept:         summary.Kept,
		Ignored:      summary.Ignored,
	})

	notifier.Send("ECR Janitor", summary.String())

	if err != nil {
		logrus.WithError(err).Error("Cleanup run failed")

		return 1
	}

	logrus.Info("Cleanup run finished: " + summary.String())

	return 0
}

// runOnSchedule schedules and executes periodic cleanup runs according to
// the cron specification.
//
// It sets up a cron scheduler, optionally exposes Prometheus metrics over
// HTTP, and ensures graceful shutdown on interrupt signals (SIGINT,
// SIGTERM), letting a running cleanup finish before exiting. Overlapping
// runs are skipped via a lock channel.
//
// Parameters:
//   - c: The cobra.Command instance, providing access to flags for startup messaging.
//   - client: The registry client shared by all scheduled runs.
//   - publisher: The report publisher, or nil when publishing is disabled.
//
// Returns:
//   - int: An exit code (0 for graceful shutdown, 1 for scheduling failures).
func runOnSchedule(c *cobra.Command, client types.RegistryClient, publisher types.ReportPublisher) int {
	lock := make(chan bool, 1)
	lock <- true

	scheduler := cron.New()

	if err := scheduler.AddFunc(scheduleSpec, func() {
		select {
		case v := <-lock:
			defer func() { lock <- v }()
			runCleanup(client, publisher)

			nextRuns := scheduler.Entries()
			if len(nextRuns) > 0 {
				logrus.Debug("Scheduled next run: " + nextRuns[0].Next.String())
			}
		default:
			logrus.Debug("Skipped cleanup, another run is still in progress.")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule cleanup runs")

		return 1
	}

	logging.WriteStartupMessage(c, scheduler.Entries()[0].Schedule.Next(time.Now()), startupInfo())

	if metricsPort != "" {
		go serveMetrics(metricsPort)
	}

	scheduler.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	logrus.Debug("Received interrupt signal, stopping scheduler...")
	scheduler.Stop()

	logrus.Debug("Waiting for running cleanup to finish...")
	<-lock

	return 0
}

// serveMetrics exposes the Prometheus metrics endpoint on the given port
// for the lifetime of the scheduler.
func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logrus.WithField("port", port).Info("Serving Prometheus metrics at /metrics")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logrus.WithError(err).Error("Metrics server stopped")
	}
}

// startupInfo assembles the startup summary from the package configuration.
func startupInfo() logging.StartupInfo {
	return logging.StartupInfo{
		Prefix: filterPrefix,
		Policy: retention.Policy{
			StableWindow:   stableWindow,
			UnstableWindow: unstableWindow,
		},
		IgnoreTags: ignoreTags,
		DryRun:     dryRun,
		Schedule:   scheduleSpec,
	}
}
