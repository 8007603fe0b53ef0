package habits

import "time"

// dateKeyLayout is the canonical calendar-day key format. Keys are always
// rendered in the local timezone of the supplied time, never UTC, so that a
// completion logged at 23:30 local lands on the day the user saw.
const dateKeyLayout = "2006-01-02"

// DateKey returns the canonical YYYY-MM-DD key for the calendar day
// containing t. This is the only map key used for per-day records.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey converts a date key back to local midnight of that day.
// Malformed keys return the zero time and an error; callers treat such
// days as having no recorded progress.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, time.Local)
}

// DayStart zeroes the time-of-day components of t. Every past/today
// comparison in the engine goes through this; comparing raw timestamps
// misclassifies boundary days near midnight.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday at 00:00 of the ISO week containing t.
// Sunday maps to the previous Monday.
func WeekStart(t time.Time) time.Time {
	d := DayStart(t)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// WeekEnd returns the Sunday (at 00:00) closing the week that contains t.
func WeekEnd(t time.Time) time.Time {
	start := WeekStart(t)
	return start.AddDate(0, 0, 6)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

// IsPastDay reports whether t falls on a day strictly before the day
// containing today.
func IsPastDay(t, today time.Time) bool {
	return DayStart(t).Before(DayStart(today))
}
