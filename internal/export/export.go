// Package export flattens the task collection into human-readable rows for
// CSV download. It is a consumer of the analytics per-task functions, not
// part of the engine itself.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"weeklytrack/internal/analytics"
	"weeklytrack/internal/dates"
	"weeklytrack/internal/model"
)

// Header lists the CSV columns in output order.
var Header = []string{
	"Task Name",
	"Created On",
	"Last Updated",
	"Total Completions",
	"Last Completed",
	"Days Since Last Completion",
	"Completion Interval (Days)",
	"Status",
	"Completion Rate (%)",
	"Completion Dates",
}

// Row is one task flattened for tabular output.
type Row struct {
	Name            string
	CreatedOn       string
	LastUpdated     string
	Completions     int
	LastCompleted   string // "Never" when empty
	DaysSince       string // "N/A" when never completed
	Interval        string // "Not set" when untracked
	Status          string
	Rate            int
	CompletionDates string // date keys joined with ", "
}

// Rows derives one row per task, in collection order.
func Rows(tasks []model.Task, today time.Time) []Row {
	out := make([]Row, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]

		row := Row{
			Name:            t.Name,
			CreatedOn:       dates.FormatKey(t.CreatedAt),
			LastUpdated:     dates.FormatKey(t.UpdatedAt),
			Completions:     t.CompletionCount(),
			LastCompleted:   "Never",
			DaysSince:       "N/A",
			Interval:        "Not set",
			Status:          string(analytics.TaskStatus(t, today)),
			Rate:            analytics.TaskRate(t, today),
			CompletionDates: strings.Join(t.CompletedDays(), ", "),
		}
		if last := t.LastCompleted(); last != "" {
			row.LastCompleted = last
		}
		if d, ok := analytics.DaysSinceLastCompletion(t, today); ok {
			row.DaysSince = strconv.Itoa(d)
		}
		if t.HasInterval() {
			row.Interval = strconv.Itoa(t.Interval)
		}
		out = append(out, row)
	}
	return out
}

// WriteCSV writes the header plus one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.CreatedOn,
			r.LastUpdated,
			strconv.Itoa(r.Completions),
			r.LastCompleted,
			r.DaysSince,
			r.Interval,
			r.Status,
			strconv.Itoa(r.Rate),
			r.CompletionDates,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename names an export for the given day,
// e.g. "weekly-tasks-export-2026-01-05.csv".
func Filename(today time.Time) string {
	return "weekly-tasks-export-" + dates.FormatKey(today) + ".csv"
}
