// Package analytics derives status, completion rates, and trend series from
// a task collection snapshot and an explicit reference date. Everything here
// is a pure function over its arguments: no clock reads, no store access,
// identical snapshots always produce identical output.
package analytics

import (
	"math"
	"sort"
	"time"

	"weeklytrack/internal/dates"
	"weeklytrack/internal/model"
)

type Status string

const (
	StatusNever          Status = "never"
	StatusCompletedToday Status = "completed-today"
	StatusOnTrack        Status = "on-track"
	StatusDueSoon        Status = "due-soon"
	StatusOverdue        Status = "overdue"
)

// DaysSinceLastCompletion returns the calendar days between the task's most
// recent completion and today. ok is false when the task was never
// completed. Future-dated completions produce a negative value; the engine
// passes that through rather than validating it away.
func DaysSinceLastCompletion(t *model.Task, today time.Time) (int, bool) {
	last := t.LastCompleted()
	if last == "" {
		return 0, false
	}
	lastDay, err := dates.ParseKey(last)
	if err != nil {
		return 0, false
	}
	return dates.DaysBetween(lastDay, today), true
}

// ClassifyStatus maps days-since-last-completion and an interval onto a
// status. Rules in priority order: never, completed-today, then the
// interval thresholds (no interval means there is no schedule to violate).
func ClassifyStatus(daysSince int, completed bool, interval int) Status {
	if !completed {
		return StatusNever
	}
	if daysSince == 0 {
		return StatusCompletedToday
	}
	if interval <= 0 {
		return StatusOnTrack
	}
	switch {
	case daysSince <= interval/2:
		return StatusOnTrack
	case daysSince <= interval:
		return StatusDueSoon
	default:
		return StatusOverdue
	}
}

// TaskStatus classifies a task as of today.
func TaskStatus(t *model.Task, today time.Time) Status {
	d, ok := DaysSinceLastCompletion(t, today)
	return ClassifyStatus(d, ok, t.Interval)
}

// TaskRate measures actual completions against how many the interval
// schedule would have demanded since the first completion, as a percentage
// capped at 100. Tasks without an interval or without completions rate 0.
func TaskRate(t *model.Task, today time.Time) int {
	first := t.FirstCompleted()
	if !t.HasInterval() || first == "" {
		return 0
	}
	firstDay, err := dates.ParseKey(first)
	if err != nil {
		return 0
	}
	daysSinceFirst := dates.DaysBetween(firstDay, today)
	expected := daysSinceFirst / t.Interval
	if expected < 1 {
		expected = 1
	}
	rate := int(math.Round(100 * float64(t.CompletionCount()) / float64(expected)))
	if rate > 100 {
		rate = 100
	}
	return rate
}

// onScheduleAsOf reports whether the task's most recent completion on or
// before day keeps it within its interval as of day.
func onScheduleAsOf(t *model.Task, day time.Time) bool {
	dayKey := dates.FormatKey(day)
	last := ""
	for _, k := range t.CompletedDays() {
		if k <= dayKey {
			last = k
		}
	}
	if last == "" {
		return false
	}
	lastDay, err := dates.ParseKey(last)
	if err != nil {
		return false
	}
	d := dates.DaysBetween(lastDay, day)
	return d == 0 || d <= t.Interval
}

// intervalTasks filters the snapshot down to interval-bearing tasks.
func intervalTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.HasInterval() {
			out = append(out, t)
		}
	}
	return out
}

// CurrentRate is the share of interval-bearing tasks currently on schedule,
// rounded to a whole percentage. Tasks without an interval are excluded from
// both sides of the ratio.
func CurrentRate(tasks []model.Task, today time.Time) int {
	tracked := intervalTasks(tasks)
	if len(tracked) == 0 {
		return 0
	}
	onSchedule := 0
	for i := range tracked {
		d, ok := DaysSinceLastCompletion(&tracked[i], today)
		if ok && (d == 0 || d <= tracked[i].Interval) {
			onSchedule++
		}
	}
	return int(math.Round(100 * float64(onSchedule) / float64(len(tracked))))
}

// dayRate is the point-in-time on-schedule percentage across the tracked
// tasks as of day.
func dayRate(tracked []model.Task, day time.Time) float64 {
	if len(tracked) == 0 {
		return 0
	}
	onSchedule := 0
	for i := range tracked {
		if onScheduleAsOf(&tracked[i], day) {
			onSchedule++
		}
	}
	return 100 * float64(onSchedule) / float64(len(tracked))
}

// AverageRate is the unweighted mean of per-day on-schedule rates across
// every distinct date on which any interval-bearing task was completed, up
// to and including today. Days with no completions anywhere are excluded
// from the date set rather than counted as zero.
func AverageRate(tasks []model.Task, today time.Time) float64 {
	tracked := intervalTasks(tasks)
	if len(tracked) == 0 {
		return 0
	}

	todayKey := dates.FormatKey(today)
	daySet := map[string]struct{}{}
	for i := range tracked {
		for _, k := range tracked[i].CompletedDays() {
			if k <= todayKey {
				daySet[k] = struct{}{}
			}
		}
	}
	if len(daySet) == 0 {
		return 0
	}

	keys := make([]string, 0, len(daySet))
	for k := range daySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		day, err := dates.ParseKey(k)
		if err != nil {
			continue
		}
		sum += dayRate(tracked, day)
	}
	return sum / float64(len(daySet))
}
