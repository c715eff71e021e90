package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"

	"github.com/opsforge/ecr-janitor/pkg/types"
)

// errPublishReport indicates a failed report upload.
var errPublishReport = errors.New("failed to publish report")

// reportContentType is the content type of the published object.
const reportContentType = "text/html"

// S3Publisher uploads rendered inventory reports to a fixed S3 bucket.
type S3Publisher struct {
	api    s3iface.S3API
	bucket string
}

// NewS3Publisher creates a publisher writing to the given bucket.
//
// Parameters:
//   - sess: The AWS session carrying region and credentials.
//   - bucket: The bucket receiving the "{label}.html" report objects.
//
// Returns:
//   - *S3Publisher: A publisher ready for uploads.
func NewS3Publisher(sess *awssession.Session, bucket string) *S3Publisher {
	return &S3Publisher{api: s3.New(sess), bucket: bucket}
}

// NewS3PublisherFromAPI creates a publisher around an existing S3 API
// handle. It is the seam used by tests.
func NewS3PublisherFromAPI(api s3iface.S3API, bucket string) *S3Publisher {
	return &S3Publisher{api: api, bucket: bucket}
}

// Publish renders the rows and uploads the document as a publicly readable
// object at "{label}.html", overwriting any prior report at that key. Upload
// failures propagate without retry.
func (p *S3Publisher) Publish(label string, rows []types.ReportRow) error {
	body, err := Render(label, rows)
	if err != nil {
		return fmt.Errorf("%w: %w", errPublishReport, err)
	}

	key := label + ".html"

	_, err = p.api.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(body),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", errPublishReport, p.bucket, key, err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": p.bucket,
		"key":    key,
		"rows":   len(rows),
	}).Info("Published image inventory report")

	return nil
}
