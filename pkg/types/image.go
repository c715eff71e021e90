package types

import "time"

// Repository identifies a single ECR repository within a registry account.
// It is immutable for the duration of a cleanup run.
type Repository struct {
	// RegistryID is the AWS account ID owning the repository.
	RegistryID string
	// Name is the repository name, e.g. "pytorch/manylinux-builder".
	Name string
}

// Image is one pushed image as reported by the registry.
//
// The digest is the immutable identity used for deletion; tags and the push
// timestamp drive classification and retention decisions.
type Image struct {
	// Digest is the content digest, e.g. "sha256:abcd...".
	Digest string
	// Tags holds the tags attached to the image. Only the first tag is
	// considered by the janitor; additional tags are ignored.
	Tags []string
	// PushedAt is the timestamp at which the image was pushed.
	PushedAt time.Time
}

// EffectiveTag returns the tag used for classification and the false value
// when the image carries no tags at all. Untagged images are never deleted.
func (i Image) EffectiveTag() (string, bool) {
	if len(i.Tags) == 0 {
		return "", false
	}

	return i.Tags[0], true
}
