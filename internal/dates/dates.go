package dates

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical date key form. All storage and comparisons use
// this string form.
const KeyLayout = "2006-01-02"

// DaysOfWeek lists weekday names starting at Sunday (day index 0).
var DaysOfWeek = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// midnight truncates t to a calendar day. All arithmetic in this package
// works on midnights in UTC so DST shifts never produce off-by-one days.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := midnight(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDates returns the 7 consecutive dates of the week containing t,
// starting at Sunday.
func WeekDates(t time.Time) []time.Time {
	start := WeekStart(t)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// FormatKey renders t as a YYYY-MM-DD date key.
func FormatKey(t time.Time) string {
	return midnight(t).Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD date key. This is the single validation point
// for date keys entering the system.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return midnight(t), nil
}

// DaysBetween returns the calendar-day difference b - a. May be negative.
func DaysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return midnight(a).Equal(midnight(b))
}

// DayName returns the weekday name ("Sunday".."Saturday") for a date key.
// Invalid keys return "".
func DayName(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return ""
	}
	return DaysOfWeek[int(t.Weekday())]
}

// FormatDisplay renders a short human label, e.g. "Mon, Jan 5".
func FormatDisplay(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatWeekRange renders the span of the week starting at start,
// e.g. "Jan 5 - Jan 11, 2026".
func FormatWeekRange(start time.Time) string {
	end := WeekStart(start).AddDate(0, 0, 6)
	return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// WeeksBetween returns the number of Sunday-start calendar weeks from a to b.
// Dates inside the same week yield 0; b in the week after a yields 1.
func WeeksBetween(a, b time.Time) int {
	return DaysBetween(WeekStart(a), WeekStart(b)) / 7
}

// DisplayWeek labels the week containing t relative to the week containing
// now: "This Week", "Last Week", "Next Week", "N Weeks Ago", or
// "N Weeks From Now".
func DisplayWeek(t, now time.Time) string {
	diff := WeeksBetween(now, t)
	switch {
	case diff == 0:
		return "This Week"
	case diff == -1:
		return "Last Week"
	case diff == 1:
		return "Next Week"
	case diff < 0:
		return fmt.Sprintf("%d Weeks Ago", -diff)
	default:
		return fmt.Sprintf("%d Weeks From Now", diff)
	}
}
