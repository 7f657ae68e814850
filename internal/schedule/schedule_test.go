package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logview-backend/internal/model"
	"logview-backend/internal/schedule"
)

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		maxUnits int
		expected string
	}{
		{"Zero", 0, 0, "0 seconds"},
		{"Negative Clamped", -5, 0, "0 seconds"},
		{"Seconds Only", 45, 0, "45 seconds"},
		{"Full Decomposition", 90061, 0, "1 days, 1 hours, 1 minutes, 1 seconds"},
		{"Truncated To Two Units", 90061, 2, "1 days, 1 hours"},
		{"Zero Higher Units Omitted", 3601, 0, "1 hours, 1 seconds"},
		{"Exact Minutes", 120, 0, "2 minutes"},
		{"Truncation Below Part Count", 75, 1, "1 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schedule.FormatFrequency(tt.seconds, tt.maxUnits))
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "now", schedule.FormatCountdown(now, now))
	assert.Equal(t, "now", schedule.FormatCountdown(now.Add(-time.Hour), now))
	assert.Equal(t, "90 seconds", schedule.FormatFrequency(90, 0))
	assert.Equal(t, "1 days, 2 hours", schedule.FormatCountdown(now.Add(26*time.Hour+30*time.Minute), now))
	assert.Equal(t, "45 seconds", schedule.FormatCountdown(now.Add(45*time.Second), now))
}

func TestDescribeCron(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{"* * * * *", "Every minute"},
		{"*/15 * * * *", "Every 15 minutes"},
		{"30 * * * *", "Hourly at minute 30"},
		{"0 4 * * *", "Daily at 04:00"},
		{"30 2 * * 1", "Weekly on Monday at 02:30"},
		{"0 0 1 * *", "Monthly on day 1 at 00:00"},
		{"5,35 */2 * * *", `On cron schedule "5,35 */2 * * *"`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			desc, err := schedule.DescribeCron(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, desc)
		})
	}
}

func TestDescribeCronInvalid(t *testing.T) {
	for _, expr := range []string{"not a cron", "", "61 * * * *", "* * *"} {
		_, err := schedule.DescribeCron(expr)
		assert.ErrorIs(t, err, schedule.ErrInvalidExpression, "expr=%q", expr)
	}
}

func TestValidateDescriptor(t *testing.T) {
	assert.NoError(t, schedule.Validate(model.ScheduleDescriptor{Crontab: "* * * * *"}))
	assert.NoError(t, schedule.Validate(model.ScheduleDescriptor{IntervalSeconds: 3600}))
	assert.Error(t, schedule.Validate(model.ScheduleDescriptor{}))
	assert.Error(t, schedule.Validate(model.ScheduleDescriptor{Crontab: "* * * * *", IntervalSeconds: 60}))
	assert.ErrorIs(t, schedule.Validate(model.ScheduleDescriptor{Crontab: "bogus"}), schedule.ErrInvalidExpression)
}

func TestNextRun(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	next, err := schedule.NextRun(model.ScheduleDescriptor{IntervalSeconds: 600}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Minute), next)

	next, err = schedule.NextRun(model.ScheduleDescriptor{Crontab: "0 4 * * *"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 4, 0, 0, 0, time.UTC), next)
}

func TestDescribeDescriptor(t *testing.T) {
	desc, err := schedule.Describe(model.ScheduleDescriptor{IntervalSeconds: 90061})
	require.NoError(t, err)
	assert.Equal(t, "Every 1 days, 1 hours, 1 minutes, 1 seconds", desc)
}
