package model

import (
	"fmt"
	"strings"
	"time"
)

// WireTimeLayout is the timestamp format used on the wire and in log files:
// ISO-8601 with exactly three fractional digits and no zone designator.
const WireTimeLayout = "2006-01-02T15:04:05.000"

// WireTime wraps time.Time so log timestamps marshal with the wire layout
// instead of RFC3339.
type WireTime struct {
	time.Time
}

func NewWireTime(t time.Time) WireTime {
	return WireTime{t}
}

func (t WireTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(WireTimeLayout) + `"`), nil
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(WireTimeLayout, s)
	if err != nil {
		// Tolerate zoned timestamps from older writers.
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid wire timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// Level is a log severity. Ordering is TRACE < DEBUG < INFO < WARNING <
// ERROR < CRITICAL.
type Level string

const (
	LevelTrace    Level = "TRACE"
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

var levelRanks = map[Level]int{
	LevelTrace:    0,
	LevelDebug:    1,
	LevelInfo:     2,
	LevelWarning:  3,
	LevelError:    4,
	LevelCritical: 5,
}

// ParseLevel normalizes a level string, returning false if it is not a
// recognized severity.
func ParseLevel(s string) (Level, bool) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := levelRanks[level]
	return level, ok
}

// AtLeast reports whether l is at or above min in severity.
func (l Level) AtLeast(min Level) bool {
	return levelRanks[l] >= levelRanks[min]
}

// LevelsAtOrAbove returns every defined level at or above min, in ascending
// severity order.
func LevelsAtOrAbove(min Level) []Level {
	minRank, ok := levelRanks[min]
	if !ok {
		minRank = 0
	}
	levels := []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}
	out := make([]Level, 0, len(levels))
	for _, l := range levels {
		if levelRanks[l] >= minRank {
			out = append(out, l)
		}
	}
	return out
}

// Exception carries the error detail attached to a log entry. Traceback is
// omitted from shallow query results.
type Exception struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Traceback string `json:"traceback,omitempty"`
}

// LogEntry is a single structured log record. Entries are immutable once
// produced by the ingest pipeline.
type LogEntry struct {
	Level     Level      `json:"level"`
	ContextID string     `json:"context_id,omitempty"`
	Timestamp WireTime   `json:"timestamp"`
	Message   string     `json:"message"`
	Exception *Exception `json:"exception,omitempty"`
}

// Compact renders the entry in the export encoding used by the recent-message
// buffer: "[LEVEL] [timestamp] [contextId] message".
func (e LogEntry) Compact() string {
	var b strings.Builder
	b.WriteString("[" + string(e.Level) + "] ")
	b.WriteString("[" + e.Timestamp.Format(WireTimeLayout) + "] ")
	if e.ContextID != "" {
		b.WriteString("[" + e.ContextID + "] ")
	}
	b.WriteString(e.Message)
	return b.String()
}
