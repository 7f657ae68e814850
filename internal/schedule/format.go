// Package schedule formats and validates task schedules: cron expressions,
// fixed intervals, and the countdowns displayed next to them.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// FormatFrequency decomposes a second count into days, hours, minutes, and
// seconds with floor division. Zero-valued higher units are omitted; seconds
// are kept when every other unit is zero. maxUnits > 0 truncates the output
// to the largest non-zero components.
func FormatFrequency(seconds, maxUnits int) string {
	if seconds < 0 {
		seconds = 0
	}

	units := []struct {
		size int
		name string
	}{
		{secondsPerDay, "days"},
		{secondsPerHour, "hours"},
		{secondsPerMinute, "minutes"},
		{1, "seconds"},
	}

	parts := make([]string, 0, len(units))
	remaining := seconds
	for _, u := range units {
		value := remaining / u.size
		remaining %= u.size
		if value > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", value, u.name))
		}
	}

	if len(parts) == 0 {
		return "0 seconds"
	}
	if maxUnits > 0 && len(parts) > maxUnits {
		parts = parts[:maxUnits]
	}
	return strings.Join(parts, ", ")
}

// FormatCountdown renders the time remaining until target, capped to the two
// most significant non-zero units. Past or immediate targets render as "now".
// The result is a point-in-time snapshot; callers re-invoke on a timer to
// keep displayed countdowns current.
func FormatCountdown(target, now time.Time) string {
	remaining := target.Sub(now)
	if remaining < time.Second {
		return "now"
	}
	return FormatFrequency(int(remaining/time.Second), 2)
}
