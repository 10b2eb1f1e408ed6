package clock

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDay is the start of the day after t.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// WeekStart is the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// WeekdayIndex numbers days Monday=0 through Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate reads a YYYY-MM-DD value as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
