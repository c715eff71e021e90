package flags

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// defaultStableDays is the default retention window for stable tags, in days.
const defaultStableDays = 14

// defaultUnstableDays is the default retention window for unstable tags, in days.
const defaultUnstableDays = 1

// defaultAWSRegion is the registry and bucket region used unless overridden.
const defaultAWSRegion = "us-east-1"

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errGetFlagFailed indicates a failure to read a flag's value.
var errGetFlagFailed = errors.New("failed to get flag value")

// SetDefaults registers the environment-variable defaults backing the flags.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("JANITOR_AWS_REGION", defaultAWSRegion)
	viper.SetDefault("JANITOR_KEEP_STABLE_DAYS", defaultStableDays)
	viper.SetDefault("JANITOR_KEEP_UNSTABLE_DAYS", defaultUnstableDays)
	viper.SetDefault("JANITOR_LOG_LEVEL", "info")
	viper.SetDefault("JANITOR_LOG_FORMAT", "auto")
}

// RegisterAWSFlags adds the flags addressing the registry account and the
// report bucket to the root command.
func RegisterAWSFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"aws-region",
		"",
		envString("JANITOR_AWS_REGION"),
		"AWS region of the registry and the report bucket")

	flags.StringP(
		"registry-id",
		"",
		envString("JANITOR_REGISTRY_ID"),
		"AWS account ID of the registry (defaults to the account of the credentials)")

	flags.StringP(
		"report-bucket",
		"",
		envString("JANITOR_REPORT_BUCKET"),
		"S3 bucket receiving the HTML inventory report; empty disables publishing")

	flags.StringP(
		"report-label",
		"",
		envString("JANITOR_REPORT_LABEL"),
		"Key label for the report object, \"{label}.html\" (defaults to the filter prefix)")
}

// RegisterRetentionFlags adds the cleanup policy flags to the root command.
// These flags control which images are deleted and which are kept.
func RegisterRetentionFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.BoolP(
		"dry-run",
		"",
		envBool("JANITOR_DRY_RUN"),
		"Compute and log deletions without executing them")

	flags.IntP(
		"keep-stable-days",
		"",
		envInt("JANITOR_KEEP_STABLE_DAYS"),
		"Days of stable Docker tags to keep (non per-build images)")

	flags.IntP(
		"keep-unstable-days",
		"",
		envInt("JANITOR_KEEP_UNSTABLE_DAYS"),
		"Days of unstable Docker tags to keep (per-build images)")

	flags.StringP(
		"filter-prefix",
		"",
		envString("JANITOR_FILTER_PREFIX"),
		"Only run cleanup for repositories with this prefix")

	flags.StringSliceP(
		"ignore-tags",
		"",
		// Due to issue spf13/viper#380, can't use viper.GetStringSlice:
		splitList(envString("JANITOR_IGNORE_TAGS")),
		"Never cleanup these tags (comma separated)")
}

// RegisterSystemFlags adds flags that modify the janitor's program flow to
// the root command: scheduling, logging, metrics, and notifications.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"schedule",
		"s",
		envString("JANITOR_SCHEDULE"),
		"Cron expression for periodic cleanup runs; empty runs once and exits")

	flags.StringP(
		"metrics-port",
		"",
		envString("JANITOR_METRICS_PORT"),
		"Port exposing Prometheus metrics over HTTP while running on a schedule")

	flags.StringSliceP(
		"notification-url",
		"n",
		splitList(envString("JANITOR_NOTIFICATION_URL")),
		"Shoutrrr URLs receiving a run summary notification")

	flags.StringP(
		"log-format",
		"l",
		viper.GetString("JANITOR_LOG_FORMAT"),
		"Sets what logging format to use for console output. Possible values: Auto, LogFmt, Pretty, JSON",
	)

	flags.String(
		"log-level",
		envString("JANITOR_LOG_LEVEL"),
		"The maximum log level that will be written to STDERR. Possible values: panic, fatal, error, warn, info, debug or trace",
	)

	flags.BoolP(
		"debug",
		"d",
		envBool("JANITOR_DEBUG"),
		"Enable debug mode with verbose logging")

	flags.BoolP(
		"trace",
		"",
		envBool("JANITOR_TRACE"),
		"Enable trace mode with very verbose logging - caution, exposes credentials")

	// https://no-color.org/
	flags.BoolP(
		"no-color",
		"",
		viper.IsSet("NO_COLOR"),
		"Disable ANSI color escape codes in log output")

	flags.BoolP(
		"no-startup-message",
		"",
		envBool("JANITOR_NO_STARTUP_MESSAGE"),
		"Prevents the janitor from logging its startup summary")
}

// ProcessFlagAliases synchronizes flag values based on helper flags.
// It promotes --debug and --trace to the corresponding log levels.
func ProcessFlagAliases(flags *pflag.FlagSet) {
	if flagIsEnabled(flags, "debug") {
		if err := flags.Set("log-level", "debug"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}

	if flagIsEnabled(flags, "trace") {
		if err := flags.Set("log-level", "trace"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}
}

// SetupLogging configures the global logger based on log-related flags.
// It sets the log format and level, returning an error for invalid
// configurations.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errGetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// ReadRetentionFlags reads the cleanup policy flags into plain values.
//
// Parameters:
//   - cmd: The command carrying the parsed flags.
//
// Returns:
//   - bool: Dry-run mode.
//   - time.Duration: Stable retention window.
//   - time.Duration: Unstable retention window.
//   - string: Repository name prefix.
//   - []string: Tags never deleted.
func ReadRetentionFlags(cmd *cobra.Command) (bool, time.Duration, time.Duration, string, []string) {
	flags := cmd.PersistentFlags()

	dryRun, _ := flags.GetBool("dry-run")
	stableDays, _ := flags.GetInt("keep-stable-days")
	unstableDays, _ := flags.GetInt("keep-unstable-days")
	prefix, _ := flags.GetString("filter-prefix")
	ignoreTags, _ := flags.GetStringSlice("ignore-tags")

	const hoursPerDay = 24

	stableWindow := time.Duration(stableDays) * hoursPerDay * time.Hour
	unstableWindow := time.Duration(unstableDays) * hoursPerDay * time.Hour

	return dryRun, stableWindow, unstableWindow, prefix, ignoreTags
}

// configureLogFormat sets the logrus formatter based on the specified format
// and color preference. It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// flagIsEnabled checks if a boolean flag is set to true.
// It exits with a fatal error if the flag is not defined.
func flagIsEnabled(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	if err != nil {
		logrus.Fatalf("The flag %q is not defined", name)
	}

	return value
}

// splitList splits a comma or space separated environment value, returning
// nil for an empty input so flag defaults stay empty.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	return regexp.MustCompile("[, ]+").Split(value, -1)
}

func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

func envInt(key string) int {
	viper.MustBindEnv(key)

	return viper.GetInt(key)
}

func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}
