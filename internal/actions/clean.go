package actions

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opsforge/ecr-janitor/internal/util"
	"github.com/opsforge/ecr-janitor/pkg/retention"
	"github.com/opsforge/ecr-janitor/pkg/session"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

// Errors for cleanup runs.
var (
	// errWalkRepositories indicates a failure while listing or processing
	// repositories.
	errWalkRepositories = errors.New("failed to process repositories")
	// errWalkImages indicates a failure while listing a repository's images.
	errWalkImages = errors.New("failed to process images")
	// errDeleteImages indicates a failed batch deletion for a repository.
	errDeleteImages = errors.New("failed to delete images")
	// errPublishReport indicates a failed report upload at the end of a run.
	errPublishReport = errors.New("failed to publish report")
)

// CleanParams configures one cleanup run.
type CleanParams struct {
	// Prefix is the repository name prefix the run operates on. The cmd
	// layer refuses to start a run with an empty prefix.
	Prefix string
	// Label keys the published report object ("{label}.html").
	Label string
}

// Summary aggregates the outcome of one cleanup run for metrics, the run
// summary log line, and notifications.
type Summary struct {
	Repositories int  // Repositories scanned.
	Scanned      int  // Tagged images evaluated.
	Deleted      int  // Images selected for deletion (queued, or logged in dry-run).
	Kept         int  // Images kept within their retention window.
	Ignored      int  // Images kept by the ignore set.
	Untagged     int  // Images skipped for carrying no tags.
	DryRun       bool // Whether deletions were executed.
}

// String renders the summary as a single human-readable line.
func (s Summary) String() string {
	verb := "deleted"
	if s.DryRun {
		verb = "would delete"
	}

	return fmt.Sprintf(
		"scanned %d repositories and %d images: %s %d, kept %d, ignored %d",
		s.Repositories, s.Scanned, verb, s.Deleted, s.Kept, s.Ignored,
	)
}

// Clean performs one full cleanup run.
//
// It walks every repository matching params.Prefix, evaluates each tagged
// image against the session's retention policy, batch-deletes eligible
// digests per repository, and publishes one consolidated report covering all
// repositories once the walk completes. A nil publisher skips publishing.
//
// Any upstream failure aborts the run: deletions already issued stand, the
// report stays unpublished, and the error is returned alongside the partial
// summary.
//
// Parameters:
//   - client: The registry client used for listing and deletion.
//   - publisher: The report publisher, or nil to skip the upload.
//   - sess: The per-run state (shared timestamp, policy, accumulator).
//   - params: Prefix and report label for the run.
//
// Returns:
//   - Summary: Aggregated counts, partial if the run aborted.
//   - error: Non-nil if any registry or publishing call failed.
func Clean(
	client types.RegistryClient,
	publisher types.ReportPublisher,
	sess *session.Session,
	params CleanParams,
) (Summary, error) {
	summary := Summary{DryRun: sess.DryRun()}

	err := client.WalkRepositories(params.Prefix, func(repo types.Repository) error {
		summary.Repositories++

		return cleanRepository(client, sess, repo, &summary)
	})
	if err != nil {
		return summary, fmt.Errorf("%w: %w", errWalkRepositories, err)
	}

	if publisher == nil {
		logrus.Debug("No report bucket configured, skipping report upload")

		return summary, nil
	}

	if err := publisher.Publish(params.Label, sess.Rows()); err != nil {
		return summary, fmt.Errorf("%w: %w", errPublishReport, err)
	}

	return summary, nil
}

// cleanRepository evaluates every image of one repository and issues the
// batched deletions for the digests that fell outside their window.
func cleanRepository(
	client types.RegistryClient,
	sess *session.Session,
	repo types.Repository,
	summary *Summary,
) error {
	repoLog := logrus.WithField("repository", repo.Name)
	repoLog.Info("Scanning repository")

	var digests []string

	err := client.WalkImages(repo, func(image types.Image) error {
		tag, ok := image.EffectiveTag()
		if !ok {
			summary.Untagged++

			return nil // Untagged images are never deleted.
		}

		summary.Scanned++

		classification := retention.Classify(tag, sess.Ignore())
		age := sess.Age(image.PushedAt)
		window := sess.Policy().Window(classification.Class)

		tagLog := repoLog.WithFields(logrus.Fields{
			"tag":       tag,
			"class":     classification.Class,
			"window":    util.FormatDuration(window),
			"age":       util.FormatDuration(age),
			"pushed_at": image.PushedAt,
		})
		tagLog.Debug("Evaluated retention for tag")

		switch retention.Evaluate(classification, age, sess.Policy()) {
		case retention.DecisionKeepIgnored:
			summary.Ignored++
			tagLog.Info("Ignoring tag")
			sess.AddRow(types.ReportRow{
				Repository: repo.Name,
				Tag:        tag,
				Ignored:    true,
				Age:        age,
				PushedAt:   image.PushedAt,
			})

		case retention.DecisionKeepWithinWindow:
			summary.Kept++
			tagLog.Info("Not deleting manifest")

			// Unstable images kept within their window are not reported.
			if classification.Class == retention.ClassStable {
				sess.AddRow(types.ReportRow{
					Repository: repo.Name,
					Tag:        tag,
					Window:     window,
					Age:        age,
					PushedAt:   image.PushedAt,
				})
			}

		case retention.DecisionDelete:
			summary.Deleted++

			if sess.DryRun() {
				tagLog.Info("Deleting manifest (dry run)")

				return nil
			}

			tagLog.Info("Deleting manifest")
			digests = append(digests, image.Digest)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: repository %s: %w", errWalkImages, repo.Name, err)
	}

	if len(digests) == 0 {
		return nil
	}

	if err := client.BatchDelete(repo, digests); err != nil {
		return fmt.Errorf("%w: repository %s: %w", errDeleteImages, repo.Name, err)
	}

	repoLog.WithField("count", len(digests)).Info("Deleted images past retention window")

	return nil
}
