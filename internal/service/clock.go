package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock arithmetic for slot generation.  Times of day are handled as
// minutes since midnight so interval math cannot trip over time zones
// or DST; callers convert back to "HH:MM" strings at the edges.

// parseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds, when present, are ignored.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed clock time %q", s)
	}
	return h*60 + m, nil
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// interval is a half-open [Start,End) range in minutes since midnight.
type interval struct {
	Start int
	End   int
}

// buildIntervals derives the bookable intervals covering
// [opening, closing) with the given duration.  Intervals are ordered,
// non-overlapping and back to back; a trailing remainder shorter than
// the duration is discarded rather than emitted as a partial slot.
func buildIntervals(openMin, closeMin, durationMin int) []interval {
	if durationMin <= 0 || openMin >= closeMin {
		return nil
	}
	var out []interval
	for start := openMin; start+durationMin <= closeMin; start += durationMin {
		out = append(out, interval{Start: start, End: start + durationMin})
	}
	return out
}
