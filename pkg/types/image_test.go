// Package types provides tests for the shared janitor data model.
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEffectiveTag_FirstTagWins verifies that only the first tag of a
// multi-tagged image is considered.
func TestEffectiveTag_FirstTagWins(t *testing.T) {
	t.Parallel()

	image := Image{Digest: "sha256:aa", Tags: []string{"2024-01-01-abc-de", "latest"}}

	tag, ok := image.EffectiveTag()

	assert.True(t, ok)
	assert.Equal(t, "2024-01-01-abc-de", tag)
}

// TestEffectiveTag_Untagged verifies that untagged images report no
// effective tag.
func TestEffectiveTag_Untagged(t *testing.T) {
	t.Parallel()

	image := Image{Digest: "sha256:bb"}

	tag, ok := image.EffectiveTag()

	assert.False(t, ok)
	assert.Empty(t, tag)
}
