package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlexible(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "wire layout",
			input:    "2024-05-01T10:30:00.123",
			expected: time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC),
		},
		{
			name:     "rfc3339",
			input:    "2024-05-01T10:30:00Z",
			expected: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "rfc3339 nano with offset",
			input:    "2024-05-01T12:30:00.5+02:00",
			expected: time.Date(2024, 5, 1, 10, 30, 0, 500000000, time.UTC),
		},
		{
			name:     "epoch millis",
			input:    "1714559400000",
			expected: time.UnixMilli(1714559400000).UTC(),
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimeFlexible(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestShortenTimestamp(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "microseconds truncated to millis",
			input:    "2024-05-01T10:30:00.123456",
			expected: "2024-05-01T10:30:00.123",
		},
		{
			name:     "already three digits",
			input:    "2024-05-01T10:30:00.123",
			expected: "2024-05-01T10:30:00.123",
		},
		{
			name:     "no fraction passes through",
			input:    "2024-05-01T10:30:00",
			expected: "2024-05-01T10:30:00",
		},
		{
			name:     "two digit fraction passes through",
			input:    "2024-05-01T10:30:00.12",
			expected: "2024-05-01T10:30:00.12",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ShortenTimestamp(tc.input))
		})
	}
}

func TestParseLogFileTime(t *testing.T) {
	got, err := ParseLogFileTime("maker_2024-05-01_10-30-00.log")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = ParseLogFileTime("maker.log")
	assert.Error(t, err)
}
