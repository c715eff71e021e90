package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// timeUnit represents a single unit of time (days, hours, minutes, or
// seconds) with its value and labels.
type timeUnit struct {
	value    int64  // The numeric value of the unit (e.g., 2 for 2 days)
	singular string // The singular form of the unit (e.g., "day")
	plural   string // The plural form of the unit (e.g., "days")
}

// Chunk splits items into consecutive groups of at most size elements,
// preserving order. The final group holds the remainder. A nil or empty
// input yields no groups.
//
// Parameters:
//   - items: Source slice.
//   - size: Maximum group size, must be positive.
//
// Returns:
//   - [][]T: The groups, referencing the backing array of items.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)

	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end])
	}

	return groups
}

// FormatDuration converts a time.Duration into a human-readable string.
//
// It breaks the duration into days, hours, minutes, and seconds, formatting
// each unit with appropriate grammar and returning a string like
// "20 days, 5 hours" or "0 seconds" for a zero duration, giving operator
// friendly output in logs and the published report.
//
// Parameters:
//   - duration: The time.Duration to convert into a readable string.
//
// Returns:
//   - string: A formatted string representing the duration, always including at least "0 seconds".
func FormatDuration(duration time.Duration) string {
	const (
		hoursPerDay      = 24 // Number of hours in a day for duration breakdown
		minutesPerHour   = 60 // Number of minutes in an hour for duration breakdown
		secondsPerMinute = 60 // Number of seconds in a minute for duration breakdown
		timeUnitCount    = 4  // Number of time units for pre-allocation
	)

	units := []timeUnit{
		{int64(duration.Hours()) / hoursPerDay, "day", "days"},
		{int64(math.Mod(duration.Hours(), hoursPerDay)), "hour", "hours"},
		{int64(math.Mod(duration.Minutes(), minutesPerHour)), "minute", "minutes"},
		{int64(math.Mod(duration.Seconds(), secondsPerMinute)), "second", "seconds"},
	}

	parts := make([]string, 0, timeUnitCount)
	// Format each unit, forcing inclusion of seconds if no other parts exist
	// to avoid empty output.
	for i, unit := range units {
		parts = append(
			parts,
			formatTimeUnit(
				unit.value,
				unit.singular,
				unit.plural,
				i == len(units)-1 && len(parts) == 0,
			),
		)
	}

	joined := strings.Join(filterEmpty(parts), ", ")
	if joined == "" {
		return "0 seconds"
	}

	return joined
}

// formatTimeUnit formats a single time unit based on its value and context.
//
// It applies singular or plural grammar, skipping zero values unless forced
// (e.g., seconds as the final fallback unit).
func formatTimeUnit(value int64, singular, plural string, forceInclude bool) string {
	switch {
	case value == 1:
		return "1 " + singular
	case value > 1 || forceInclude:
		return fmt.Sprintf("%d %s", value, plural)
	default:
		return "" // Skip zero values unless forced.
	}
}

// filterEmpty removes empty strings from a slice, returning only non-empty
// elements.
func filterEmpty(parts []string) []string {
	var filtered []string

	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}

	return filtered
}
