package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Day is the length of a calendar day in UTC.
const Day = 24 * time.Hour

// seasonRolloverMonth is the month in which a new season begins.
const seasonRolloverMonth = time.October

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to 00:00 UTC of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns Monday 00:00 UTC on or before t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WholeDaysBetween returns the floored number of 24h periods from earlier to later.
// The result is negative when earlier is after later.
func WholeDaysBetween(earlier, later time.Time) int {
	d := later.Sub(earlier)
	days := int(d / Day)
	if d%Day < 0 {
		days--
	}
	return days
}

// SeasonFor returns the season year for t: a season starting in October belongs to the next
// calendar year, e.g. November 2023 is season 2024.
func SeasonFor(t time.Time) int {
	u := t.UTC()
	if u.Month() >= seasonRolloverMonth {
		return u.Year() + 1
	}
	return u.Year()
}
