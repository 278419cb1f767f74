package testutil

import "time"

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// DaysBefore returns now shifted back by n whole days.
func DaysBefore(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// ReferenceNow is a Wednesday midday used as the default "now" across tests.
// Its forecast week runs from Monday 2024-01-15 to Monday 2024-01-22.
var ReferenceNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
