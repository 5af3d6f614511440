package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklytrack/internal/model"
)

func item(name string, completed bool) model.ChecklistItem {
	return model.ChecklistItem{ID: name, Name: name, Completed: completed}
}

func TestSummarizeChecklist_Empty(t *testing.T) {
	got := SummarizeChecklist(nil)

	assert.Zero(t, got.TotalItems)
	assert.Zero(t, got.CompletedItems)
	assert.Zero(t, got.CompletionRate)
	assert.Empty(t, got.MostProductiveDay)
	assert.Empty(t, got.LeastProductiveDay)
	assert.Empty(t, got.WeeklyTrend)
}

func TestSummarizeChecklist_Counts(t *testing.T) {
	weeks := []model.WeekData{
		{
			StartDate: "2026-03-15",
			Days: []model.DayChecklist{
				{Date: "2026-03-15", Items: []model.ChecklistItem{item("a", true), item("b", false)}},
				{Date: "2026-03-16", Items: []model.ChecklistItem{item("c", true)}},
			},
		},
	}

	got := SummarizeChecklist(weeks)

	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, 2, got.CompletedItems)
	assert.InDelta(t, 200.0/3.0, got.CompletionRate, 1e-9)
}

func TestSummarizeChecklist_ProductiveDays(t *testing.T) {
	weeks := []model.WeekData{
		{
			StartDate: "2026-03-15",
			Days: []model.DayChecklist{
				// Sunday: 2/2 complete, Monday: 1/2, Tuesday: 0/1.
				{Date: "2026-03-15", Items: []model.ChecklistItem{item("a", true), item("b", true)}},
				{Date: "2026-03-16", Items: []model.ChecklistItem{item("c", true), item("d", false)}},
				{Date: "2026-03-17", Items: []model.ChecklistItem{item("e", false)}},
			},
		},
	}

	got := SummarizeChecklist(weeks)

	assert.Equal(t, "Sunday", got.MostProductiveDay)
	assert.Equal(t, "Tuesday", got.LeastProductiveDay)
}

func TestSummarizeChecklist_TieGoesToEarlierWeekday(t *testing.T) {
	weeks := []model.WeekData{
		{
			StartDate: "2026-03-15",
			Days: []model.DayChecklist{
				{Date: "2026-03-16", Items: []model.ChecklistItem{item("a", true)}},
				{Date: "2026-03-18", Items: []model.ChecklistItem{item("b", true)}},
			},
		},
	}

	got := SummarizeChecklist(weeks)

	// Monday and Wednesday both sit at 100%; Monday is encountered first.
	assert.Equal(t, "Monday", got.MostProductiveDay)
	assert.Equal(t, "Monday", got.LeastProductiveDay)
}

func TestSummarizeChecklist_WeeklyTrendSortedAndFiltered(t *testing.T) {
	weeks := []model.WeekData{
		{
			StartDate: "2026-03-15",
			Days: []model.DayChecklist{
				{Date: "2026-03-16", Items: []model.ChecklistItem{item("a", true)}},
			},
		},
		{
			// An empty week contributes no trend point.
			StartDate: "2026-03-08",
			Days:      []model.DayChecklist{{Date: "2026-03-09", Items: nil}},
		},
		{
			StartDate: "2026-03-01",
			Days: []model.DayChecklist{
				{Date: "2026-03-02", Items: []model.ChecklistItem{item("b", false), item("c", true)}},
			},
		},
	}

	got := SummarizeChecklist(weeks)

	require.Len(t, got.WeeklyTrend, 2)
	assert.Equal(t, "2026-03-01", got.WeeklyTrend[0].Date)
	assert.InDelta(t, 50.0, got.WeeklyTrend[0].CompletionRate, 1e-9)
	assert.Equal(t, "2026-03-15", got.WeeklyTrend[1].Date)
	assert.InDelta(t, 100.0, got.WeeklyTrend[1].CompletionRate, 1e-9)
}

func TestSummarizeChecklist_BucketsCoverAllWeekdays(t *testing.T) {
	got := SummarizeChecklist(nil)

	require.Len(t, got.DayBuckets, 7)
	assert.Equal(t, "Sunday", got.DayBuckets[0].Day)
	assert.Equal(t, "Saturday", got.DayBuckets[6].Day)
}
