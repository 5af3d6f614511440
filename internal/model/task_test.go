package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_CompletedDaysSorted(t *testing.T) {
	task := Task{Completions: map[string]int{
		"2026-03-10": 1,
		"2026-03-02": 2,
		"2026-03-18": 1,
	}}

	assert.Equal(t, []string{"2026-03-02", "2026-03-10", "2026-03-18"}, task.CompletedDays())
	assert.Equal(t, "2026-03-18", task.LastCompleted())
	assert.Equal(t, "2026-03-02", task.FirstCompleted())
	assert.Equal(t, 4, task.CompletionCount())
}

func TestTask_EmptyCompletions(t *testing.T) {
	task := Task{}

	assert.Nil(t, task.CompletedDays())
	assert.Equal(t, "", task.LastCompleted())
	assert.Equal(t, 0, task.CompletionCount())
	assert.False(t, task.CompletedOn("2026-03-18"))
}

func TestTask_UnmarshalCanonical(t *testing.T) {
	blob := `{"id":"t1","name":"water plants","completions":{"2026-03-10":2},"interval":3}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(blob), &task))

	assert.Equal(t, TaskID("t1"), task.ID)
	assert.Equal(t, 2, task.Completions["2026-03-10"])
	assert.Equal(t, 3, task.Interval)
}

func TestTask_UnmarshalLegacyCompletedDays(t *testing.T) {
	blob := `{"id":"t1","name":"run","completedDays":["2026-03-10","2026-03-12"]}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(blob), &task))

	assert.Equal(t, map[string]int{"2026-03-10": 1, "2026-03-12": 1}, task.Completions)
}

func TestTask_UnmarshalLegacyCountsWin(t *testing.T) {
	blob := `{"id":"t1","name":"stretch",
		"completedDays":["2026-03-10","2026-03-12"],
		"completionCounts":{"2026-03-10":3}}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(blob), &task))

	assert.Equal(t, 3, task.Completions["2026-03-10"])
	assert.Equal(t, 1, task.Completions["2026-03-12"])
}

func TestTask_UnmarshalDropsInvalidEntries(t *testing.T) {
	blob := `{"id":"t1","name":"x",
		"completedDays":["not-a-date","2026-03-10"],
		"completionCounts":{"2026-03-11":0,"2026-03-12":-2},
		"interval":-5}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(blob), &task))

	assert.Equal(t, map[string]int{"2026-03-10": 1}, task.Completions)
	assert.Equal(t, 0, task.Interval)
	assert.False(t, task.HasInterval())
}

func TestTask_CloneIsDeep(t *testing.T) {
	task := Task{Completions: map[string]int{"2026-03-10": 1}}
	cp := task.Clone()
	cp.Completions["2026-03-10"] = 9

	assert.Equal(t, 1, task.Completions["2026-03-10"])
}

func TestWeekData_CloneIsDeep(t *testing.T) {
	week := WeekData{
		StartDate: "2026-03-15",
		Days: []DayChecklist{
			{Date: "2026-03-15", Items: []ChecklistItem{{ID: "i1", Name: "a"}}},
		},
	}
	cp := week.Clone()
	cp.Days[0].Items[0].Name = "changed"

	assert.Equal(t, "a", week.Days[0].Items[0].Name)
}
