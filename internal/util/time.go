package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"logview-backend/internal/model"
)

var (
	shortStampRegex   = regexp.MustCompile(`^(.[^.]+\.\d{3})\d*$`)
	logFileTimeRegex  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}`)
	logFileTimeLayout = "2006-01-02_15-04-05"
)

// ParseTimeFlexible accepts the wire layout, RFC3339(Nano), or epoch
// milliseconds. Results are normalized to UTC.
func ParseTimeFlexible(timeStr string) (time.Time, error) {
	t, err := time.Parse(model.WireTimeLayout, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// ShortenTimestamp truncates a displayed timestamp to exactly three
// fractional digits. Strings without longer fractions pass through unchanged.
func ShortenTimestamp(ts string) string {
	if m := shortStampRegex.FindStringSubmatch(ts); m != nil {
		return m[1]
	}
	return ts
}

// ParseLogFileTime extracts the YYYY-MM-DD_HH-MM-SS stamp embedded in a log
// file name.
func ParseLogFileTime(name string) (time.Time, error) {
	stamp := logFileTimeRegex.FindString(name)
	if stamp == "" {
		return time.Time{}, fmt.Errorf("no timestamp in log file name: %s", name)
	}
	t, err := time.Parse(logFileTimeLayout, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp in log file name %s: %w", name, err)
	}
	return t.UTC(), nil
}
