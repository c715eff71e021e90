package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/aws/aws-sdk-go/service/ecr/ecriface"
	"github.com/sirupsen/logrus"

	"github.com/opsforge/ecr-janitor/internal/util"
	"github.com/opsforge/ecr-janitor/pkg/types"
)

// maxDeleteBatchSize is the maximum number of image digests accepted by a
// single BatchDeleteImage call, an ECR API limit.
const maxDeleteBatchSize = 100

// Errors for registry operations.
var (
	// errDescribeRepositories indicates a failure while paginating the
	// repository listing.
	errDescribeRepositories = errors.New("failed to describe repositories")
	// errDescribeImages indicates a failure while paginating a repository's
	// image listing.
	errDescribeImages = errors.New("failed to describe images")
	// errBatchDeleteImages indicates a failed batch deletion call.
	errBatchDeleteImages = errors.New("failed to batch delete images")
)

// ECRClient is a types.RegistryClient backed by the AWS ECR API.
type ECRClient struct {
	api        ecriface.ECRAPI
	registryID string
}

// NewECRClient creates an ECR-backed registry client from an AWS session.
//
// Parameters:
//   - sess: The AWS session carrying region and credentials.
//   - registryID: The AWS account ID owning the registry, or empty to use
//     the default registry of the credentials.
//
// Returns:
//   - *ECRClient: A client ready for repository walks and deletions.
func NewECRClient(sess *awssession.Session, registryID string) *ECRClient {
	return &ECRClient{api: ecr.New(sess), registryID: registryID}
}

// NewECRClientFromAPI creates a client around an existing ECR API handle.
// It is the seam used by tests.
func NewECRClientFromAPI(api ecriface.ECRAPI, registryID string) *ECRClient {
	return &ECRClient{api: api, registryID: registryID}
}

// WalkRepositories paginates the registry's repository listing and calls fn
// for every repository whose name starts with prefix. Pagination is lazy:
// the next page is fetched only after the current one is consumed. An error
// returned by fn stops the walk and is propagated unchanged.
func (c *ECRClient) WalkRepositories(prefix string, fn func(types.Repository) error) error {
	input := &ecr.DescribeRepositoriesInput{}
	if c.registryID != "" {
		input.RegistryId = aws.String(c.registryID)
	}

	var walkErr error

	err := c.api.DescribeRepositoriesPages(input,
		func(page *ecr.DescribeRepositoriesOutput, _ bool) bool {
			for _, repo := range page.Repositories {
				name := aws.StringValue(repo.RepositoryName)
				if !strings.HasPrefix(name, prefix) {
					continue
				}

				walkErr = fn(types.Repository{
					RegistryID: aws.StringValue(repo.RegistryId),
					Name:       name,
				})
				if walkErr != nil {
					return false // Stop paginating on callback error.
				}
			}

			return true
		})
	if err != nil {
		return fmt.Errorf("%w: %w", errDescribeRepositories, err)
	}

	return walkErr
}

// WalkImages paginates a repository's image listing and calls fn for every
// image record, carrying over tags, digest, and push timestamp.
func (c *ECRClient) WalkImages(repo types.Repository, fn func(types.Image) error) error {
	input := &ecr.DescribeImagesInput{
		RepositoryName: aws.String(repo.Name),
	}
	if repo.RegistryID != "" {
		input.RegistryId = aws.String(repo.RegistryID)
	}

	var walkErr error

	err := c.api.DescribeImagesPages(input,
		func(page *ecr.DescribeImagesOutput, _ bool) bool {
			for _, detail := range page.ImageDetails {
				walkErr = fn(types.Image{
					Digest:   aws.StringValue(detail.ImageDigest),
					Tags:     aws.StringValueSlice(detail.ImageTags),
					PushedAt: aws.TimeValue(detail.ImagePushedAt),
				})
				if walkErr != nil {
					return false
				}
			}

			return true
		})
	if err != nil {
		return fmt.Errorf("%w: %w", errDescribeImages, err)
	}

	return walkErr
}

// BatchDelete deletes the given digests from one repository, splitting them
// into chunks of at most 100 digests per BatchDeleteImage call.
//
// Chunks already issued are not rolled back when a later chunk fails; the
// failure propagates to the caller and aborts the run. Per-image failures
// reported inside a successful call are logged and do not fail the batch.
func (c *ECRClient) BatchDelete(repo types.Repository, digests []string) error {
	for _, chunk := range util.Chunk(digests, maxDeleteBatchSize) {
		imageIDs := make([]*ecr.ImageIdentifier, 0, len(chunk))
		for _, digest := range chunk {
			imageIDs = append(imageIDs, &ecr.ImageIdentifier{ImageDigest: aws.String(digest)})
		}

		input := &ecr.BatchDeleteImageInput{
			RepositoryName: aws.String(repo.Name),
			ImageIds:       imageIDs,
		}
		if repo.RegistryID != "" {
			input.RegistryId = aws.String(repo.RegistryID)
		}

		output, err := c.api.BatchDeleteImage(input)
		if err != nil {
			return fmt.Errorf("%w: repository %s: %w", errBatchDeleteImages, repo.Name, err)
		}

		for _, failure := range output.Failures {
			var digest string
			if failure.ImageId != nil {
				digest = aws.StringValue(failure.ImageId.ImageDigest)
			}

			logrus.WithFields(logrus.Fields{
				"repository": repo.Name,
				"digest":     digest,
				"code":       aws.StringValue(failure.FailureCode),
				"reason":     aws.StringValue(failure.FailureReason),
			}).Warn("Registry reported a failed image deletion")
		}

		logrus.WithFields(logrus.Fields{
			"repository": repo.Name,
			"count":      len(chunk),
			"failures":   len(output.Failures),
		}).Debug("Issued batch delete call")
	}

	return nil
}
