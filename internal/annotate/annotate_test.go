package annotate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"logview-backend/internal/annotate"
)

func TestAnnotateSeriesLink(t *testing.T) {
	out := annotate.Annotate("Series[42] failed", nil)

	assert.Contains(t, out, `<a href="/series/42">Series[42]</a>`)
	assert.Contains(t, out, " failed")
}

func TestAnnotateTaskAndSyncLinks(t *testing.T) {
	out := annotate.Annotate("Task[refresh-episodes] triggered by Sync[7]", nil)

	assert.Contains(t, out, `<a href="/scheduler">Task[refresh-episodes]</a>`)
	assert.Contains(t, out, `<a href="/sync">Sync[7]</a>`)
}

func TestAnnotateConnectionLinks(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wrapped string
	}{
		{"Emby Connection", "EmbyConnection[3] timed out", "EmbyConnection[3]"},
		{"Plex Interface", "queried PlexInterface[1]", "PlexInterface[1]"},
		{"Sonarr Connection", "SonarrConnection[2] returned 0 series", "SonarrConnection[2]"},
		{"TMDb Interface", "TMDbInterface[1] rate limited", "TMDbInterface[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := annotate.Annotate(tt.message, nil)
			assert.Contains(t, out, `<a href="/connections">`+tt.wrapped+`</a>`)
		})
	}
}

func TestAnnotateUnknownProviderPassesThrough(t *testing.T) {
	out := annotate.Annotate("NetflixConnection[9] ignored", nil)
	assert.Equal(t, "NetflixConnection[9] ignored", out)
}

func TestAnnotateTemplateAndFont(t *testing.T) {
	out := annotate.Annotate("applied Template[5] with Font[12]", nil)

	assert.Contains(t, out, `<a href="/templates">Template[5]</a>`)
	assert.Contains(t, out, `<a href="/fonts#font-id12">Font[12]</a>`)
}

func TestAnnotateRedactedOnly(t *testing.T) {
	out := annotate.Annotate("token [REDACTED] leaked", nil)

	assert.Equal(t, `token <span class="redacted">[REDACTED]</span> leaked`, out)
}

func TestAnnotateStatusBuckets(t *testing.T) {
	tests := []struct {
		message string
		class   string
	}{
		{"Finished in 12ms (101 Switching Protocols)", "status-neutral"},
		{"Finished in 3ms (200 OK)", "status-success"},
		{"Finished in 8ms (304 Not Modified)", "status-info"},
		{"Finished in 20ms (404 Not Found)", "status-warning"},
		{"Finished in 150ms (500 Internal Server Error)", "status-error"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			out := annotate.Annotate(tt.message, nil)
			assert.Contains(t, out, tt.class)
			// Duration must stay unstyled.
			assert.True(t, strings.HasPrefix(out, "Finished in "), out)
		})
	}
}

func TestAnnotateMalformedIDPassesThrough(t *testing.T) {
	out := annotate.Annotate("Series[abc] skipped", nil)
	assert.Equal(t, "Series[abc] skipped", out)
}

func TestAnnotateHighlightTerms(t *testing.T) {
	out := annotate.Annotate("card creation failed for card batch", []string{"card"})

	// First occurrence only.
	assert.Equal(t,
		`<span class="highlighted">card</span> creation failed for card batch`, out)
}

func TestAnnotateHighlightNeverInsideMarkup(t *testing.T) {
	out := annotate.Annotate("Series[42] Series refresh", []string{"Series"})

	// "Series" inside the link span is reserved; the bare word wins.
	assert.Contains(t, out, `<a href="/series/42">Series[42]</a>`)
	assert.Contains(t, out, `<span class="highlighted">Series</span>`)
	assert.Equal(t, 1, strings.Count(out, "highlighted"))
}

func TestAnnotateEscapesHTML(t *testing.T) {
	out := annotate.Annotate(`<script>alert("x")</script>`, nil)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestAnnotateNoDoubleWrap(t *testing.T) {
	out := annotate.Annotate("Series[42]", []string{"Series[42]"})

	assert.Equal(t, `<a href="/series/42">Series[42]</a>`, out)
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"error", "timeout"}, annotate.SplitTerms("error|timeout"))
	assert.Equal(t, []string{"a"}, annotate.SplitTerms("a|"))
	assert.Nil(t, annotate.SplitTerms(""))
}
