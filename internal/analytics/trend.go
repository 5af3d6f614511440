package analytics

import (
	"time"

	"weeklytrack/internal/dates"
	"weeklytrack/internal/model"
)

// DefaultTrendWeeks is the trailing window when the caller does not ask for
// a specific width.
const DefaultTrendWeeks = 8

// DayTrend is one day inside a trend week. Rate is nil for future days.
type DayTrend struct {
	Date     string   `json:"date"`
	Rate     *float64 `json:"rate"`
	IsFuture bool     `json:"isFuture"`
}

// WeekTrend summarizes one week of on-schedule rates.
type WeekTrend struct {
	StartDate   string     `json:"startDate"`
	Label       string     `json:"label"`
	Days        []DayTrend `json:"days"`
	AvgRate     float64    `json:"avgRate"`
	Completions int        `json:"completions"`
}

// WeeklyTrend computes per-day on-schedule rates for the trailing weeks
// window ending at the week containing today, ordered oldest to newest.
// Future days inside the current week carry a nil rate. A week with no
// completions and a zero average is dropped unless it lies wholly in the
// past, so a just-started empty week does not show up as a dead bar. An
// empty or interval-free collection yields an empty series.
func WeeklyTrend(tasks []model.Task, weeks int, today time.Time) []WeekTrend {
	tracked := intervalTasks(tasks)
	if len(tracked) == 0 {
		return []WeekTrend{}
	}
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}

	todayDay := dates.FormatKey(today)
	currentStart := dates.WeekStart(today)

	out := make([]WeekTrend, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		start := currentStart.AddDate(0, 0, -7*i)

		wt := WeekTrend{
			StartDate: dates.FormatKey(start),
			Label:     dates.DisplayWeek(start, today),
			Days:      make([]DayTrend, 0, 7),
		}

		sum := 0.0
		counted := 0
		for d := 0; d < 7; d++ {
			day := start.AddDate(0, 0, d)
			key := dates.FormatKey(day)
			if key > todayDay {
				wt.Days = append(wt.Days, DayTrend{Date: key, IsFuture: true})
				continue
			}
			r := dayRate(tracked, day)
			rate := r
			wt.Days = append(wt.Days, DayTrend{Date: key, Rate: &rate})
			sum += r
			counted++

			for j := range tasks {
				wt.Completions += tasks[j].Completions[key]
			}
		}
		if counted > 0 {
			wt.AvgRate = sum / float64(counted)
		}

		whollyPast := dates.FormatKey(start.AddDate(0, 0, 6)) < todayDay
		if wt.Completions == 0 && wt.AvgRate == 0 && !whollyPast {
			continue
		}
		out = append(out, wt)
	}
	return out
}
