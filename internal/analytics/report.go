package analytics

import (
	"time"

	"weeklytrack/internal/model"
)

// TaskRow is the per-task slice of a report.
type TaskRow struct {
	ID               model.TaskID `json:"id"`
	Name             string       `json:"name"`
	Interval         int          `json:"interval,omitempty"`
	DaysSince        *int         `json:"daysSince"` // nil = never completed
	Status           Status       `json:"status"`
	Rate             int          `json:"rate"`
	TotalCompletions int          `json:"totalCompletions"`
	LastCompleted    string       `json:"lastCompleted,omitempty"`
}

// Report is the full analytics payload served to the dashboard.
type Report struct {
	Today       string           `json:"today"`
	Tasks       []TaskRow        `json:"tasks"`
	CurrentRate int              `json:"currentRate"`
	AverageRate float64          `json:"averageRate"`
	Trend       []WeekTrend      `json:"trend"`
	Checklist   ChecklistSummary `json:"checklist"`
}

// BuildReport derives the complete analytics view from the two collection
// snapshots. trendWeeks <= 0 falls back to DefaultTrendWeeks.
func BuildReport(tasks []model.Task, weeks []model.WeekData, trendWeeks int, today time.Time) Report {
	rows := make([]TaskRow, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		row := TaskRow{
			ID:               t.ID,
			Name:             t.Name,
			Interval:         t.Interval,
			Status:           TaskStatus(t, today),
			Rate:             TaskRate(t, today),
			TotalCompletions: t.CompletionCount(),
			LastCompleted:    t.LastCompleted(),
		}
		if d, ok := DaysSinceLastCompletion(t, today); ok {
			row.DaysSince = &d
		}
		rows = append(rows, row)
	}

	return Report{
		Today:       today.Format("2006-01-02"),
		Tasks:       rows,
		CurrentRate: CurrentRate(tasks, today),
		AverageRate: AverageRate(tasks, today),
		Trend:       WeeklyTrend(tasks, trendWeeks, today),
		Checklist:   SummarizeChecklist(weeks),
	}
}
