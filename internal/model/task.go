package model

import (
	"encoding/json"
	"sort"
	"time"

	"weeklytrack/internal/dates"
)

type TaskID string

// Task is a trackable recurring unit of work. Completions maps a YYYY-MM-DD
// date key to a positive completion count; presence with count > 0 is the
// single source of truth for "completed on that day".
type Task struct {
	ID          TaskID         `json:"id"`
	Name        string         `json:"name"`
	Completions map[string]int `json:"completions,omitempty"`

	// Interval is the target number of days between completions.
	// Zero means untracked for scheduling purposes.
	Interval int `json:"interval,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasInterval reports whether the task carries a scheduling interval.
func (t *Task) HasInterval() bool {
	return t.Interval > 0
}

// CompletedOn reports whether the task was completed on the given date key.
func (t *Task) CompletedOn(key string) bool {
	return t.Completions[key] > 0
}

// CompletedDays returns the completed date keys in ascending order.
func (t *Task) CompletedDays() []string {
	if len(t.Completions) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.Completions))
	for k, n := range t.Completions {
		if n > 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// CompletionCount returns the total completion credits across all days.
func (t *Task) CompletionCount() int {
	total := 0
	for _, n := range t.Completions {
		if n > 0 {
			total += n
		}
	}
	return total
}

// LastCompleted returns the most recent completed date key, or "" if the
// task was never completed.
func (t *Task) LastCompleted() string {
	days := t.CompletedDays()
	if len(days) == 0 {
		return ""
	}
	return days[len(days)-1]
}

// FirstCompleted returns the earliest completed date key, or "".
func (t *Task) FirstCompleted() string {
	days := t.CompletedDays()
	if len(days) == 0 {
		return ""
	}
	return days[0]
}

// taskJSON carries both the canonical completion map and the legacy pair of
// fields (completedDays list + completionCounts map) older blobs persisted.
type taskJSON struct {
	ID               TaskID         `json:"id"`
	Name             string         `json:"name"`
	Completions      map[string]int `json:"completions,omitempty"`
	CompletedDays    []string       `json:"completedDays,omitempty"`
	CompletionCounts map[string]int `json:"completionCounts,omitempty"`
	Interval         int            `json:"interval,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// UnmarshalJSON decodes a task, normalizing legacy blobs into the canonical
// completion map: completedDays entries count 1 unless completionCounts says
// otherwise, invalid date keys and non-positive counts are dropped, and a
// non-positive interval is treated as unset.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	completions := map[string]int{}
	for k, n := range raw.Completions {
		completions[k] = n
	}
	for _, k := range raw.CompletedDays {
		if completions[k] == 0 {
			completions[k] = 1
		}
	}
	for k, n := range raw.CompletionCounts {
		if n > completions[k] {
			completions[k] = n
		}
	}
	for k, n := range completions {
		if n <= 0 {
			delete(completions, k)
			continue
		}
		if _, err := dates.ParseKey(k); err != nil {
			delete(completions, k)
		}
	}
	if len(completions) == 0 {
		completions = nil
	}

	interval := raw.Interval
	if interval < 0 {
		interval = 0
	}

	*t = Task{
		ID:          raw.ID,
		Name:        raw.Name,
		Completions: completions,
		Interval:    interval,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	if t.Completions != nil {
		cp := make(map[string]int, len(t.Completions))
		for k, n := range t.Completions {
			cp[k] = n
		}
		t.Completions = cp
	}
	return t
}
