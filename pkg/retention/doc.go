// Package retention implements the tag classification and age-based retention
// rules applied to every image during a cleanup run.
//
// Key components:
//   - Classify: Sorts a tag into the stable or unstable retention class and
//     flags membership in the ignore set.
//   - Policy: Holds the stable and unstable retention windows for a run.
//   - Evaluate: Turns a classification, an age, and a policy into a keep or
//     delete decision.
//
// All functions are pure and total over any string input; there are no error
// conditions and no I/O.
package retention
