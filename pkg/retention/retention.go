package retention

import (
	"strings"
	"time"
)

// stableHyphenCount is the exact number of hyphen separators that marks a tag
// as a per-workflow stable tag. CI builds use the workflow ID as the tag,
// which contains four "-" characters.
const stableHyphenCount = 4

// Class is the retention class of a tag.
type Class int

const (
	// ClassStable marks long-lived release artifacts: purely numeric tags,
	// workflow-ID shaped tags, and ignored tags.
	ClassStable Class = iota
	// ClassUnstable marks short-lived per-build artifacts.
	ClassUnstable
)

// String returns a readable name for logging.
func (c Class) String() string {
	if c == ClassStable {
		return "stable"
	}

	return "unstable"
}

// Decision is the retention outcome for a single image.
type Decision int

const (
	// DecisionKeepIgnored keeps an image because its tag is in the ignore
	// set. Age is irrelevant.
	DecisionKeepIgnored Decision = iota
	// DecisionKeepWithinWindow keeps an image strictly younger than the
	// retention window of its class.
	DecisionKeepWithinWindow
	// DecisionDelete marks an image whose age has reached or exceeded the
	// window for deletion.
	DecisionDelete
)

// String returns a readable name for logging.
func (d Decision) String() string {
	switch d {
	case DecisionKeepIgnored:
		return "keep-ignored"
	case DecisionKeepWithinWindow:
		return "keep-within-window"
	default:
		return "delete"
	}
}

// IgnoreSet holds tags that are never deleted regardless of age.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds an IgnoreSet from a list of tags, dropping empty
// entries that a trailing comma in flag input would otherwise produce.
func NewIgnoreSet(tags ...string) IgnoreSet {
	set := make(IgnoreSet, len(tags))

	for _, tag := range tags {
		if tag == "" {
			continue
		}

		set[tag] = struct{}{}
	}

	return set
}

// Contains reports whether the tag is in the ignore set.
func (s IgnoreSet) Contains(tag string) bool {
	_, ok := s[tag]

	return ok
}

// Classification is the result of classifying a single tag.
type Classification struct {
	// Class is the retention class determining which window applies.
	Class Class
	// Ignored reports membership in the ignore set. Ignored tags are always
	// kept and always classified stable.
	Ignored bool
}

// Classify sorts a tag into its retention class.
//
// A tag is stable if it is purely numeric, contains exactly four hyphen
// separators, or is a member of the ignore set; every other tag is unstable.
// The function is total: any string input, including the empty string,
// yields a valid classification.
func Classify(tag string, ignore IgnoreSet) Classification {
	ignored := ignore.Contains(tag)

	if allDigits(tag) || strings.Count(tag, "-") == stableHyphenCount || ignored {
		return Classification{Class: ClassStable, Ignored: ignored}
	}

	return Classification{Class: ClassUnstable, Ignored: ignored}
}

// allDigits reports whether the tag is non-empty and consists of ASCII
// digits only.
func allDigits(tag string) bool {
	if tag == "" {
		return false
	}

	for _, r := range tag {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Policy holds the retention windows for one cleanup run.
type Policy struct {
	// StableWindow is the maximum age of stable-class images.
	StableWindow time.Duration
	// UnstableWindow is the maximum age of unstable-class images.
	UnstableWindow time.Duration
}

// Window returns the retention window for the given class.
func (p Policy) Window(class Class) time.Duration {
	if class == ClassStable {
		return p.StableWindow
	}

	return p.UnstableWindow
}

// Evaluate decides whether an image is kept or deleted.
//
// Ignored tags are always kept. Otherwise the image is kept only while its
// age is strictly below the window of its class; an image exactly at the
// window boundary is deleted.
func Evaluate(classification Classification, age time.Duration, policy Policy) Decision {
	if classification.Ignored {
		return DecisionKeepIgnored
	}

	if age < policy.Window(classification.Class) {
		return DecisionKeepWithinWindow
	}

	return DecisionDelete
}
