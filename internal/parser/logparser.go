package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"logview-backend/internal/model"
)

// Log file line format:
//   [2024-05-01T12:30:45.123] [ERROR] [a1b2c3d4] message text
// The context-id group is optional. Lines that do not match the header are
// traceback continuation lines belonging to the previous entry.
var headerRegex = regexp.MustCompile(
	`^\[(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3})\] \[(\w+)\](?: \[([A-Za-z0-9_-]+)\])? (.*)$`,
)

// MultilineParser assembles log file lines into entries, folding traceback
// continuation lines into the pending entry's exception. Feed returns a
// completed entry each time a new header line closes the previous one; call
// Flush once input is exhausted.
type MultilineParser struct {
	pending   *model.LogEntry
	traceback []string
}

func NewMultilineParser() *MultilineParser {
	return &MultilineParser{}
}

// Feed consumes one line and returns the entry it completed, if any.
func (p *MultilineParser) Feed(line string) *model.LogEntry {
	matches := headerRegex.FindStringSubmatch(line)
	if matches == nil {
		if p.pending == nil {
			if strings.TrimSpace(line) != "" {
				log.Debug().Str("line", line).Msg("Orphan continuation line dropped")
			}
			return nil
		}
		p.traceback = append(p.traceback, line)
		return nil
	}

	completed := p.Flush()

	timestamp, err := time.Parse(model.WireTimeLayout, matches[1])
	if err != nil {
		log.Error().Err(err).Str("timestamp", matches[1]).Msg("Failed to parse log timestamp")
		return completed
	}
	level, ok := model.ParseLevel(matches[2])
	if !ok {
		log.Debug().Str("level", matches[2]).Msg("Unrecognized log level")
		level = model.LevelInfo
	}

	p.pending = &model.LogEntry{
		Level:     level,
		ContextID: matches[3],
		Timestamp: model.NewWireTime(timestamp.UTC()),
		Message:   matches[4],
	}
	return completed
}

// Flush returns the pending entry, attaching any buffered traceback, and
// resets the parser.
func (p *MultilineParser) Flush() *model.LogEntry {
	if p.pending == nil {
		return nil
	}
	entry := p.pending
	if len(p.traceback) > 0 {
		entry.Exception = buildException(p.traceback)
	}
	p.pending = nil
	p.traceback = nil
	return entry
}

// buildException derives the exception type and value from the final
// traceback line, which carries "Type: value" in Python-style dumps.
func buildException(lines []string) *model.Exception {
	exc := &model.Exception{Traceback: strings.Join(lines, "\n")}
	last := strings.TrimSpace(lines[len(lines)-1])
	if typ, value, found := strings.Cut(last, ": "); found && !strings.Contains(typ, " ") {
		exc.Type = typ
		exc.Value = value
	} else {
		exc.Type = last
	}
	return exc
}
