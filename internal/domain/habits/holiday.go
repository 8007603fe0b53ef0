package habits

import (
	"time"

	"github.com/google/uuid"
)

// covers reports whether date falls within the span's inclusive range at
// day granularity. Spans with start after end never match; the creating
// collaborator rejects those, and treating them as non-matching here keeps
// calendar rendering alive if one slips through.
func (s HolidaySpan) covers(date time.Time) bool {
	start := DayStart(s.Start)
	end := DayStart(s.End)
	if start.After(end) {
		return false
	}
	d := DayStart(date)
	return !d.Before(start) && !d.After(end)
}

// matchesScope reports whether the span applies to the given habit and
// task set. Whole-habit spans (empty TaskIDs) match any task; task-scoped
// spans match when at least one of taskIDs is in scope.
func (s HolidaySpan) matchesScope(habitID uuid.UUID, taskIDs []uuid.UUID) bool {
	if s.HabitID != habitID {
		return false
	}
	if len(s.TaskIDs) == 0 {
		return true
	}
	for _, scoped := range s.TaskIDs {
		for _, id := range taskIDs {
			if scoped == id {
				return true
			}
		}
	}
	return false
}

// InHoliday reports whether date is exempt under the single given span.
func InHoliday(date time.Time, span *HolidaySpan, habitID uuid.UUID, taskIDs []uuid.UUID) bool {
	if span == nil {
		return false
	}
	return span.matchesScope(habitID, taskIDs) && span.covers(date)
}

// InAnyHoliday reports whether date is exempt under any of the spans.
// Exemption suppresses streak breakage and the missed classification but
// never counts as a completion.
func InAnyHoliday(date time.Time, spans []HolidaySpan, habitID uuid.UUID, taskIDs []uuid.UUID) bool {
	for i := range spans {
		if InHoliday(date, &spans[i], habitID, taskIDs) {
			return true
		}
	}
	return false
}

// ActivePeriod returns the span whose range contains today, if any. A date
// can be exempt under a past span too; callers that need the distinction
// (active renders "safe now", past renders muted) compare against this.
func ActivePeriod(today time.Time, spans []HolidaySpan, habitID uuid.UUID) *HolidaySpan {
	for i := range spans {
		if spans[i].HabitID == habitID && spans[i].covers(today) {
			return &spans[i]
		}
	}
	return nil
}

// HolidayInfo describes a date's relationship to the active holiday
// period for presentation purposes.
type HolidayInfo struct {
	IsHoliday bool   `json:"is_holiday"`
	Active    bool   `json:"active"`
	Message   string `json:"message,omitempty"`
}

// GetHolidayInfo resolves the holiday status of date against the habit's
// active period.
func GetHolidayInfo(date time.Time, active *HolidaySpan, habitID uuid.UUID) HolidayInfo {
	if active == nil || !InHoliday(date, active, habitID, nil) {
		return HolidayInfo{}
	}
	return HolidayInfo{
		IsHoliday: true,
		Active:    true,
		Message:   active.Message,
	}
}
