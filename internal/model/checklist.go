package model

import "time"

// ChecklistItem is a one-off item on a specific day's checklist.
type ChecklistItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayChecklist holds the items for one calendar day.
type DayChecklist struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Items []ChecklistItem `json:"items"`
}

// WeekData is one week of checklists, keyed by the Sunday that starts it.
type WeekData struct {
	StartDate string         `json:"startDate"` // YYYY-MM-DD of the week's Sunday
	Days      []DayChecklist `json:"days"`
}

// Clone returns a deep copy of the week.
func (w WeekData) Clone() WeekData {
	days := make([]DayChecklist, len(w.Days))
	for i, d := range w.Days {
		items := make([]ChecklistItem, len(d.Items))
		copy(items, d.Items)
		days[i] = DayChecklist{Date: d.Date, Items: items}
	}
	return WeekData{StartDate: w.StartDate, Days: days}
}
