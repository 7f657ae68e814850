package logclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview-backend/internal/dto"
	"logview-backend/internal/logclient"
	"logview-backend/internal/model"
)

func pageResponse(entries ...model.LogEntry) dto.LogPage {
	items := make([]dto.LogRow, len(entries))
	for i, e := range entries {
		items[i] = dto.LogRow{LogEntry: e}
	}
	return dto.LogPage{
		Items:      items,
		Total:      int64(len(entries)),
		PageSize:   50,
		Page:       1,
		TotalPages: 1,
	}
}

func entry(level model.Level, msg string) model.LogEntry {
	return model.LogEntry{
		Level:     level,
		ContextID: "ctx1",
		Timestamp: model.NewWireTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Message:   msg,
	}
}

func TestQueryOmitsEmptyFilters(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode(pageResponse())
	}))
	defer server.Close()

	client := logclient.New(server.URL, "")
	_, err := client.Query(context.Background(), logclient.Filters{Contains: ""}, 1)
	require.NoError(t, err)

	require.NotNil(t, captured)
	query := captured.URL.Query()
	assert.Equal(t, "1", query.Get("page"))
	_, hasContains := query["contains"]
	assert.False(t, hasContains, "empty contains filter must not be sent at all")
	for _, key := range []string{"level", "after", "before", "context_id", "shallow"} {
		_, present := query[key]
		assert.False(t, present, "unset filter %q must be absent", key)
	}
}

func TestQuerySendsPopulatedFilters(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode(pageResponse())
	}))
	defer server.Close()

	after := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	client := logclient.New(server.URL, "secret")
	_, err := client.Query(context.Background(), logclient.Filters{
		Level:     "WARNING",
		After:     after,
		Contains:  "card",
		ContextID: "abc123",
		Shallow:   true,
	}, 2)
	require.NoError(t, err)

	query := captured.URL.Query()
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "WARNING", query.Get("level"))
	assert.Equal(t, "2024-05-01T10:00:00.000", query.Get("after"))
	assert.Equal(t, "card", query.Get("contains"))
	assert.Equal(t, "abc123", query.Get("context_id"))
	assert.Equal(t, "true", query.Get("shallow"))
	assert.Equal(t, "Bearer secret", captured.Header.Get("Authorization"))
}

func TestQueryUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := logclient.New(server.URL, "")
	_, err := client.Query(context.Background(), logclient.Filters{}, 1)
	assert.ErrorIs(t, err, logclient.ErrUnauthorized)
}

func TestQueryServerErrorKeepsBuffer(t *testing.T) {
	failing := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(pageResponse(entry(model.LevelInfo, "first page")))
	}))
	defer server.Close()

	client := logclient.New(server.URL, "")
	_, err := client.Query(context.Background(), logclient.Filters{}, 1)
	require.NoError(t, err)
	require.Contains(t, client.Export(), "first page")

	failing = true
	_, err = client.Query(context.Background(), logclient.Filters{}, 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, logclient.ErrUnauthorized)

	// Failed query leaves the previous export window intact.
	assert.Contains(t, client.Export(), "first page")
}

func TestQueryReplacesBuffer(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			_ = json.NewEncoder(w).Encode(pageResponse(entry(model.LevelInfo, "old message")))
			return
		}
		_ = json.NewEncoder(w).Encode(pageResponse(entry(model.LevelError, "new message")))
	}))
	defer server.Close()

	client := logclient.New(server.URL, "")
	_, err := client.Query(context.Background(), logclient.Filters{}, 1)
	require.NoError(t, err)
	_, err = client.Query(context.Background(), logclient.Filters{}, 2)
	require.NoError(t, err)

	export := client.Export()
	assert.NotContains(t, export, "old message")
	assert.Contains(t, export, "new message")
	assert.Contains(t, export, "[ERROR] [2024-05-01T12:00:00.000] [ctx1] new message")
}

func TestRecentDoesNotTouchExportBuffer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pageResponse(entry(model.LevelWarning, "polled message")))
	}))
	defer server.Close()

	client := logclient.New(server.URL, "")
	entries, err := client.Recent(context.Background(), logclient.Filters{Level: "WARNING", Shallow: true}, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "polled message", entries[0].Message)
	assert.Empty(t, client.Export())
}
