// Package pagination computes which page links a paginated view should
// render for a given current page, total page count, and available width.
package pagination

import "strconv"

// Link describes one rendered pagination element. Nav is false for the
// active page, which is styled but not clickable.
type Link struct {
	Page   int    `json:"page"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Nav    bool   `json:"nav"`
}

// Options control window sizing and single-page behavior.
type Options struct {
	// AmountVisible is the maximum number of links to emit. Values below 3
	// are clamped to 3 so the active page can keep a neighbor on each side.
	AmountVisible int
	// HideSingle omits output entirely when there is only one page.
	HideSingle bool
}

// AmountForWidth derives a link budget from a container width and an
// estimated per-link pixel width.
func AmountForWidth(containerWidth, perLinkWidth int) int {
	if perLinkWidth <= 0 {
		perLinkWidth = 40
	}
	amount := containerWidth / perLinkWidth
	if amount < 3 {
		amount = 3
	}
	return amount
}

// Window returns the ordered link sequence for the given position. The
// active page appears exactly once. When the window does not reach the first
// or last page, the edge link collapses into a jump marker instead of
// enumerating every skipped page.
func Window(current, total int, opts Options) []Link {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total == 1 {
		if opts.HideSingle {
			return nil
		}
		return []Link{{Page: 1, Label: "1", Active: true}}
	}

	amount := opts.AmountVisible
	if amount < 3 {
		amount = 3
	}

	half := (amount - 1) / 2
	leftBound := min(current-1, half)
	rightBound := min(total-current, half)
	leftLinks := min(current-1, leftBound+half-rightBound)
	rightLinks := min(total-current, rightBound+half-leftBound)

	start := current - leftLinks
	end := current + rightLinks

	links := make([]Link, 0, end-start+1)
	for page := start; page <= end; page++ {
		if page < 1 {
			continue
		}
		links = append(links, Link{
			Page:   page,
			Label:  strconv.Itoa(page),
			Active: page == current,
			Nav:    page != current,
		})
	}

	if start > 1 {
		links[0] = Link{Page: 1, Label: "«", Nav: true}
	}
	if end < total {
		links[len(links)-1] = Link{Page: total, Label: "»", Nav: true}
	}

	return links
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
