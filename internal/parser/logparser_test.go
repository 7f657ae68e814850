package parser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview-backend/internal/model"
	"logview-backend/internal/parser"
)

func TestFeedSingleEntry(t *testing.T) {
	p := parser.NewMultilineParser()

	entry := p.Feed("[2024-05-01T12:30:45.123] [INFO] [a1b2c3] Started card creation")
	assert.Nil(t, entry, "header line alone should not complete an entry")

	entry = p.Flush()
	require.NotNil(t, entry)
	assert.Equal(t, model.LevelInfo, entry.Level)
	assert.Equal(t, "a1b2c3", entry.ContextID)
	assert.Equal(t, "Started card creation", entry.Message)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC), entry.Timestamp.Time)
	assert.Nil(t, entry.Exception)
}

func TestFeedWithoutContextID(t *testing.T) {
	p := parser.NewMultilineParser()
	p.Feed("[2024-05-01T12:30:45.000] [DEBUG] No context here")

	entry := p.Flush()
	require.NotNil(t, entry)
	assert.Equal(t, model.LevelDebug, entry.Level)
	assert.Empty(t, entry.ContextID)
	assert.Equal(t, "No context here", entry.Message)
}

func TestFeedFoldsTraceback(t *testing.T) {
	p := parser.NewMultilineParser()
	p.Feed("[2024-05-01T12:30:45.123] [ERROR] [ctx1] Card creation failed")
	p.Feed("Traceback (most recent call last):")
	p.Feed(`  File "cards.py", line 10, in create`)
	p.Feed("ValueError: bad dimensions")

	completed := p.Feed("[2024-05-01T12:30:46.000] [INFO] [ctx2] Next entry")
	require.NotNil(t, completed)
	assert.Equal(t, "Card creation failed", completed.Message)
	require.NotNil(t, completed.Exception)
	assert.Equal(t, "ValueError", completed.Exception.Type)
	assert.Equal(t, "bad dimensions", completed.Exception.Value)
	assert.Contains(t, completed.Exception.Traceback, "Traceback (most recent call last):")

	next := p.Flush()
	require.NotNil(t, next)
	assert.Equal(t, "Next entry", next.Message)
	assert.Nil(t, next.Exception)
}

func TestFeedDropsOrphanContinuation(t *testing.T) {
	p := parser.NewMultilineParser()

	assert.Nil(t, p.Feed("  orphan continuation line"))
	assert.Nil(t, p.Flush())
}

func TestFeedTableDriven(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		expectEntry bool
	}{
		{
			name:        "Valid Header",
			line:        "[2024-05-01T12:30:45.123] [WARNING] [abc-123] Something odd",
			expectEntry: true,
		},
		{
			name:        "Missing Millis",
			line:        "[2024-05-01T12:30:45] [INFO] no fraction",
			expectEntry: false,
		},
		{
			name:        "Empty Line",
			line:        "",
			expectEntry: false,
		},
		{
			name:        "Plain Text",
			line:        "some unstructured output",
			expectEntry: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.NewMultilineParser()
			p.Feed(tt.line)
			entry := p.Flush()
			if tt.expectEntry {
				assert.NotNil(t, entry)
			} else {
				assert.Nil(t, entry)
			}
		})
	}
}
