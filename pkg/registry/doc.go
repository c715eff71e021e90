// Package registry implements the ECR-backed registry client used by the
// cleanup driver. It wraps the AWS SDK's paginated DescribeRepositories and
// DescribeImages calls behind lazy walk functions and splits batch deletions
// into the 100-digest chunks the BatchDeleteImage API permits.
//
// The client takes the ecriface.ECRAPI interface so tests can substitute a
// stub without a live registry.
package registry
