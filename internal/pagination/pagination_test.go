package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview-backend/internal/pagination"
)

func TestWindowSinglePage(t *testing.T) {
	links := pagination.Window(1, 1, pagination.Options{AmountVisible: 5})

	require.Len(t, links, 1)
	assert.True(t, links[0].Active)
	assert.False(t, links[0].Nav)
	assert.Equal(t, 1, links[0].Page)
}

func TestWindowSinglePageHidden(t *testing.T) {
	links := pagination.Window(1, 1, pagination.Options{AmountVisible: 5, HideSingle: true})
	assert.Empty(t, links)
}

func TestWindowAllPagesVisible(t *testing.T) {
	// With enough width every page appears exactly once, no jump markers.
	for current := 1; current <= 5; current++ {
		links := pagination.Window(current, 5, pagination.Options{AmountVisible: 7})

		require.Len(t, links, 5, "current=%d", current)
		seen := map[int]int{}
		for _, l := range links {
			seen[l.Page]++
			assert.NotEqual(t, "«", l.Label)
			assert.NotEqual(t, "»", l.Label)
		}
		for page := 1; page <= 5; page++ {
			assert.Equal(t, 1, seen[page], "page %d (current=%d)", page, current)
		}
	}
}

func TestWindowActivePageExactlyOnce(t *testing.T) {
	links := pagination.Window(5, 10, pagination.Options{AmountVisible: 5})

	active := 0
	for _, l := range links {
		if l.Active {
			active++
			assert.Equal(t, 5, l.Page)
			assert.False(t, l.Nav)
		}
	}
	assert.Equal(t, 1, active)
}

func TestWindowCollapsesLeftEdge(t *testing.T) {
	links := pagination.Window(10, 10, pagination.Options{AmountVisible: 5})

	require.NotEmpty(t, links)
	assert.Equal(t, "«", links[0].Label)
	assert.Equal(t, 1, links[0].Page)
	assert.True(t, links[0].Nav)
	assert.Equal(t, 10, links[len(links)-1].Page)
}

func TestWindowCollapsesRightEdge(t *testing.T) {
	links := pagination.Window(1, 10, pagination.Options{AmountVisible: 5})

	require.Len(t, links, 5)
	assert.Equal(t, "1", links[0].Label)
	assert.True(t, links[0].Active)
	last := links[len(links)-1]
	assert.Equal(t, "»", last.Label)
	assert.Equal(t, 10, last.Page)
}

func TestWindowMiddleHasBothMarkers(t *testing.T) {
	links := pagination.Window(5, 10, pagination.Options{AmountVisible: 5})

	require.Len(t, links, 5)
	assert.Equal(t, "«", links[0].Label)
	assert.Equal(t, "»", links[4].Label)
	assert.Equal(t, []int{1, 4, 5, 6, 10}, pages(links))
}

func TestAmountForWidth(t *testing.T) {
	assert.Equal(t, 10, pagination.AmountForWidth(400, 40))
	assert.Equal(t, 3, pagination.AmountForWidth(50, 40))
}

func pages(links []pagination.Link) []int {
	out := make([]int, len(links))
	for i, l := range links {
		out[i] = l.Page
	}
	return out
}
