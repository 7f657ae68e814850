// Package annotate post-processes raw log message text into hyperlinked,
// highlighted, redaction-aware markup for the log viewer. The stored message
// is never altered; only the rendered copy carries markup.
package annotate

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
)

var (
	seriesRegex   = regexp.MustCompile(`Series\[(\d+)\]`)
	taskRegex     = regexp.MustCompile(`Task\[([A-Za-z0-9_-]+)\]`)
	syncRegex     = regexp.MustCompile(`Sync\[(\d+)\]`)
	connRegex     = regexp.MustCompile(`(Emby|Jellyfin|Plex|Sonarr|TMDb|TVDb)(Connection|Interface)\[(\d+)\]`)
	templateRegex = regexp.MustCompile(`Template\[(\d+)\]`)
	fontRegex     = regexp.MustCompile(`Font\[(\d+)\]`)
	redactedRegex = regexp.MustCompile(`\[REDACTED\]`)
	statusRegex   = regexp.MustCompile(`Finished in (\d+)ms \((\d{3}) ([^)]+)\)`)
)

// Status text is colored by the leading digit of the status code.
var statusClasses = map[byte]string{
	'1': "neutral",
	'2': "success",
	'3': "info",
	'4': "warning",
	'5': "error",
}

// span is a reserved replacement over [start, end) of the escaped message.
type span struct {
	start, end int
	markup     string
}

// Annotate transforms a raw message into HTML-safe markup. Patterns apply in
// a fixed order and the first pattern to claim a span wins; later patterns
// and highlight terms never wrap text inside an earlier match. Unmatched
// text passes through unchanged.
func Annotate(message string, highlightTerms []string) string {
	escaped := html.EscapeString(message)
	spans := make([]span, 0, 4)

	reserve := func(re *regexp.Regexp, render func(m []string) string) {
		for _, idx := range re.FindAllStringSubmatchIndex(escaped, -1) {
			start, end := idx[0], idx[1]
			if overlaps(spans, start, end) {
				continue
			}
			groups := make([]string, 0, len(idx)/2)
			for g := 0; g < len(idx); g += 2 {
				groups = append(groups, escaped[idx[g]:idx[g+1]])
			}
			spans = append(spans, span{start: start, end: end, markup: render(groups)})
		}
	}

	reserve(seriesRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/series/%s">%s</a>`, m[1], m[0])
	})
	reserve(taskRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/scheduler">%s</a>`, m[0])
	})
	reserve(syncRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/sync">%s</a>`, m[0])
	})
	reserve(connRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/connections">%s</a>`, m[0])
	})
	reserve(templateRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/templates">%s</a>`, m[0])
	})
	reserve(fontRegex, func(m []string) string {
		return fmt.Sprintf(`<a href="/fonts#font-id%s">%s</a>`, m[1], m[0])
	})
	reserve(redactedRegex, func(m []string) string {
		return fmt.Sprintf(`<span class="redacted">%s</span>`, m[0])
	})
	reserve(statusRegex, func(m []string) string {
		class := statusClasses[m[2][0]]
		if class == "" {
			class = "neutral"
		}
		// Duration stays unstyled; only the status text is re-wrapped.
		return fmt.Sprintf(`Finished in %sms (<span class="status-%s">%s %s</span>)`,
			m[1], class, m[2], m[3])
	})

	for _, term := range highlightTerms {
		if term == "" {
			continue
		}
		escapedTerm := html.EscapeString(term)
		if start, ok := firstFreeIndex(escaped, escapedTerm, spans); ok {
			spans = append(spans, span{
				start:  start,
				end:    start + len(escapedTerm),
				markup: fmt.Sprintf(`<span class="highlighted">%s</span>`, escapedTerm),
			})
		}
	}

	if len(spans) == 0 {
		return escaped
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	cursor := 0
	for _, s := range spans {
		b.WriteString(escaped[cursor:s.start])
		b.WriteString(s.markup)
		cursor = s.end
	}
	b.WriteString(escaped[cursor:])
	return b.String()
}

// SplitTerms splits a pipe-delimited search string into highlight terms,
// dropping empty segments.
func SplitTerms(query string) []string {
	if query == "" {
		return nil
	}
	parts := strings.Split(query, "|")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// firstFreeIndex finds the first literal occurrence of term that does not
// intersect an already-reserved span.
func firstFreeIndex(text, term string, spans []span) (int, bool) {
	offset := 0
	for {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return 0, false
		}
		start := offset + i
		end := start + len(term)
		if !overlaps(spans, start, end) {
			return start, true
		}
		offset = start + 1
	}
}
