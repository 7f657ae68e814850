package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"logview-backend/internal/model"
)

// ErrInvalidExpression marks a cron expression the parser rejected. Callers
// render a fixed "Invalid Expression" indicator instead of the description.
var ErrInvalidExpression = errors.New("invalid cron expression")

// Standard five-field crontab: minute, hour, day-of-month, month, day-of-week.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

var weekdayNames = map[string]string{
	"0": "Sunday", "1": "Monday", "2": "Tuesday", "3": "Wednesday",
	"4": "Thursday", "5": "Friday", "6": "Saturday", "7": "Sunday",
}

// ParseCron validates a five-field crontab expression.
func ParseCron(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, err)
	}
	return sched, nil
}

// DescribeCron renders a human-readable phrase for a crontab expression.
// Malformed input returns ErrInvalidExpression rather than panicking.
func DescribeCron(expr string) (string, error) {
	if _, err := ParseCron(expr); err != nil {
		return "", err
	}

	fields := strings.Fields(strings.TrimSpace(expr))
	minute, hour, dom, _, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	switch {
	case minute == "*" && hour == "*":
		return "Every minute", nil
	case strings.HasPrefix(minute, "*/") && hour == "*":
		return fmt.Sprintf("Every %s minutes", minute[2:]), nil
	case isNumber(minute) && hour == "*":
		return fmt.Sprintf("Hourly at minute %s", minute), nil
	case isNumber(minute) && isNumber(hour) && dom == "*" && dow == "*":
		return fmt.Sprintf("Daily at %s", clockTime(hour, minute)), nil
	case isNumber(minute) && isNumber(hour) && dom == "*" && weekdayNames[dow] != "":
		return fmt.Sprintf("Weekly on %s at %s", weekdayNames[dow], clockTime(hour, minute)), nil
	case isNumber(minute) && isNumber(hour) && isNumber(dom) && dow == "*":
		return fmt.Sprintf("Monthly on day %s at %s", dom, clockTime(hour, minute)), nil
	}
	return fmt.Sprintf("On cron schedule %q", expr), nil
}

// Describe renders either variant of a schedule descriptor.
func Describe(d model.ScheduleDescriptor) (string, error) {
	if err := d.CheckShape(); err != nil {
		return "", err
	}
	if d.IsCron() {
		return DescribeCron(d.Crontab)
	}
	return "Every " + FormatFrequency(d.IntervalSeconds, 0), nil
}

// Validate checks the descriptor shape and, for the cron variant, its syntax.
func Validate(d model.ScheduleDescriptor) error {
	if err := d.CheckShape(); err != nil {
		return err
	}
	if d.IsCron() {
		_, err := ParseCron(d.Crontab)
		return err
	}
	return nil
}

// NextRun computes the next firing time after now.
func NextRun(d model.ScheduleDescriptor, now time.Time) (time.Time, error) {
	if err := d.CheckShape(); err != nil {
		return time.Time{}, err
	}
	if d.IsCron() {
		sched, err := ParseCron(d.Crontab)
		if err != nil {
			return time.Time{}, err
		}
		return sched.Next(now), nil
	}
	return now.Add(time.Duration(d.IntervalSeconds) * time.Second), nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func clockTime(hour, minute string) string {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
