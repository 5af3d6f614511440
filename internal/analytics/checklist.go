package analytics

import (
	"sort"

	"weeklytrack/internal/dates"
	"weeklytrack/internal/model"
)

// DayBucket accumulates checklist item counts for one weekday.
type DayBucket struct {
	Day       string `json:"day"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// WeekRate is one point on the checklist's per-week trend.
type WeekRate struct {
	Date           string  `json:"date"` // week start key
	CompletionRate float64 `json:"completionRate"`
}

// ChecklistSummary aggregates every stored checklist week.
type ChecklistSummary struct {
	TotalItems         int         `json:"totalItems"`
	CompletedItems     int         `json:"completedItems"`
	CompletionRate     float64     `json:"completionRate"`
	MostProductiveDay  string      `json:"mostProductiveDay,omitempty"`
	LeastProductiveDay string      `json:"leastProductiveDay,omitempty"`
	WeeklyTrend        []WeekRate  `json:"weeklyTrend"`
	DayBuckets         []DayBucket `json:"dayBuckets"`
}

// SummarizeChecklist buckets every checklist item by weekday and derives
// overall and per-week completion rates. Most/least productive day compare
// completion rates among weekdays that have items at all; exact ties go to
// the earlier weekday in Sunday-to-Saturday order.
func SummarizeChecklist(weeks []model.WeekData) ChecklistSummary {
	summary := ChecklistSummary{WeeklyTrend: []WeekRate{}}

	buckets := make([]DayBucket, len(dates.DaysOfWeek))
	for i, name := range dates.DaysOfWeek {
		buckets[i] = DayBucket{Day: name}
	}

	for _, week := range weeks {
		weekTotal := 0
		weekCompleted := 0
		for _, day := range week.Days {
			completed := 0
			for _, item := range day.Items {
				if item.Completed {
					completed++
				}
			}
			weekTotal += len(day.Items)
			weekCompleted += completed

			name := dates.DayName(day.Date)
			for i := range buckets {
				if buckets[i].Day == name {
					buckets[i].Total += len(day.Items)
					buckets[i].Completed += completed
				}
			}
		}
		summary.TotalItems += weekTotal
		summary.CompletedItems += weekCompleted
		if weekTotal > 0 {
			summary.WeeklyTrend = append(summary.WeeklyTrend, WeekRate{
				Date:           week.StartDate,
				CompletionRate: 100 * float64(weekCompleted) / float64(weekTotal),
			})
		}
	}

	sort.Slice(summary.WeeklyTrend, func(i, j int) bool {
		return summary.WeeklyTrend[i].Date < summary.WeeklyTrend[j].Date
	})

	if summary.TotalItems > 0 {
		summary.CompletionRate = 100 * float64(summary.CompletedItems) / float64(summary.TotalItems)
	}

	best, worst := -1.0, 101.0
	for _, b := range buckets {
		if b.Total == 0 {
			continue
		}
		rate := 100 * float64(b.Completed) / float64(b.Total)
		if rate > best {
			best = rate
			summary.MostProductiveDay = b.Day
		}
		if rate < worst {
			worst = rate
			summary.LeastProductiveDay = b.Day
		}
	}

	summary.DayBuckets = buckets
	return summary
}
