package dto

// ScheduleUpdateRequest updates one task's schedule. Either Crontab or the
// interval fields must be supplied, never both.
type ScheduleUpdateRequest struct {
	Crontab *string `json:"crontab,omitempty"`
	Weeks   int     `json:"weeks,omitempty"`
	Days    int     `json:"days,omitempty"`
	Hours   int     `json:"hours,omitempty"`
	Minutes int     `json:"minutes,omitempty"`
	Seconds int     `json:"seconds,omitempty"`
}

// IntervalSeconds flattens the interval fields.
func (r ScheduleUpdateRequest) IntervalSeconds() int {
	return r.Weeks*7*24*3600 + r.Days*24*3600 + r.Hours*3600 + r.Minutes*60 + r.Seconds
}

// HasInterval reports whether any interval field was supplied.
func (r ScheduleUpdateRequest) HasInterval() bool {
	return r.IntervalSeconds() != 0
}

// ScheduleResponse echoes the stored schedule with its human rendering.
type ScheduleResponse struct {
	TaskID      string `json:"taskId"`
	Description string `json:"description"`
	NextRun     string `json:"nextRun,omitempty"`
	Countdown   string `json:"countdown,omitempty"`
}
