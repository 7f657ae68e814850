package dto

import (
	"time"

	"logview-backend/internal/model"
	"logview-backend/internal/pagination"
)

// LogQuery is the materialized filter set for a log search. Zero-valued
// fields mean "filter not applied"; the controller only populates fields the
// client actually sent.
type LogQuery struct {
	MinLevel   model.Level
	After      time.Time
	Before     time.Time
	Contains   string
	ContextIDs []string
	Shallow    bool
	Page       int
	Size       int
	// Visible, when positive, asks for a pagination link window of that many
	// links alongside the results.
	Visible int
}

// LogRow is a view-ready log entry: the immutable record plus its annotated
// rendering when requested.
type LogRow struct {
	model.LogEntry
	Rendered string `json:"rendered,omitempty"`
}

// LogPage is one page of query results, replaced wholesale on each query.
type LogPage struct {
	Items      []LogRow          `json:"items"`
	Total      int64             `json:"total"`
	PageSize   int               `json:"pageSize"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Links      []pagination.Link `json:"links,omitempty"`
}

// LogFileInfo describes one downloadable log file. The timestamp is parsed
// from the YYYY-MM-DD_HH-MM-SS stamp embedded in the name.
type LogFileInfo struct {
	Name string         `json:"name"`
	URL  string         `json:"url"`
	Time model.WireTime `json:"time"`
	Size int64          `json:"size"`
}
