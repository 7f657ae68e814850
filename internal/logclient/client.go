// Package logclient is the HTTP consumer of the log API: it builds filtered
// query requests, pages through results, and keeps a rolling window of
// recently-seen messages for bulk export. The live toast notifier polls
// through this client the same way the web UI does.
package logclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"logview-backend/internal/buffer"
	"logview-backend/internal/dto"
	"logview-backend/internal/model"
)

var (
	// ErrUnauthorized marks an expired session. The background poller treats
	// it as terminal; no other status does that.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStaleResponse marks a response that resolved after a newer query
	// had already been issued. Callers drop it and keep the newer page.
	ErrStaleResponse = errors.New("stale query response")
)

// Filters is the interactive filter set. Zero values are omitted from the
// request entirely; the backend treats an absent parameter differently from
// an empty one, so empty strings are never sent.
type Filters struct {
	Level     string
	After     time.Time
	Before    time.Time
	Contains  string
	ContextID string
	Shallow   bool
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	recent  *buffer.Ring[string]

	// Monotonic sequencing guards against a slow response for an old page
	// overwriting a newer one.
	issued  atomic.Uint64
	applied atomic.Uint64
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		recent:  buffer.New[string](buffer.DefaultCapacity),
	}
}

// Query fetches one page of filtered results. On success the recent-message
// buffer is replaced wholesale with this page's compact encodings. There is
// no retry; the caller keeps its previous page on failure.
func (c *Client) Query(ctx context.Context, f Filters, page int) (*dto.LogPage, error) {
	seq := c.issued.Add(1)

	result, err := c.fetch(ctx, f, page)
	if err != nil {
		return nil, err
	}

	if !c.apply(seq) {
		log.Debug().Uint64("seq", seq).Msg("Dropping stale log query response")
		return nil, ErrStaleResponse
	}

	encoded := make([]string, 0, len(result.Items))
	for _, row := range result.Items {
		encoded = append(encoded, row.Compact())
	}
	c.recent.Replace(encoded)

	return result, nil
}

// Recent fetches the first page of entries after the given time without
// touching the export buffer; the notifier keeps its own append-and-cap
// window.
func (c *Client) Recent(ctx context.Context, f Filters, after time.Time) ([]model.LogEntry, error) {
	f.After = after
	result, err := c.fetch(ctx, f, 1)
	if err != nil {
		return nil, err
	}
	entries := make([]model.LogEntry, 0, len(result.Items))
	for _, row := range result.Items {
		entries = append(entries, row.LogEntry)
	}
	return entries, nil
}

// Export joins the buffered compact encodings for bulk download, oldest
// first.
func (c *Client) Export() string {
	return strings.Join(c.recent.Snapshot(), "\n")
}

func (c *Client) fetch(ctx context.Context, f Filters, page int) (*dto.LogPage, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if f.Shallow {
		params.Set("shallow", "true")
	}
	if f.Level != "" {
		params.Set("level", f.Level)
	}
	if !f.After.IsZero() {
		params.Set("after", f.After.UTC().Format(model.WireTimeLayout))
	}
	if !f.Before.IsZero() {
		params.Set("before", f.Before.UTC().Format(model.WireTimeLayout))
	}
	if f.Contains != "" {
		params.Set("contains", f.Contains)
	}
	if f.ContextID != "" {
		params.Set("context_id", f.ContextID)
	}

	endpoint := c.baseURL + "/api/logs/query?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building log query request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("log query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("log query returned status %s", resp.Status)
	}

	var result dto.LogPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding log query response: %w", err)
	}
	return &result, nil
}

// apply advances the applied sequence to seq, failing when a later query has
// already been applied.
func (c *Client) apply(seq uint64) bool {
	for {
		current := c.applied.Load()
		if seq <= current {
			return false
		}
		if c.applied.CompareAndSwap(current, seq) {
			return true
		}
	}
}
