package habits

import "time"

// DayClass is the visual/logical classification of a single calendar day.
type DayClass string

const (
	DayBeforeCreation DayClass = "before_creation"
	DayHoliday        DayClass = "holiday"
	DayInStreak       DayClass = "in_streak"
	DayPartial        DayClass = "partial"
	DayMissed         DayClass = "missed"
	DayNeutral        DayClass = "neutral"
)

// DayInfo is the per-date output consumed by calendar rendering. The run
// flags let contiguous runs (streak, missed, holiday) be drawn without the
// caller re-scanning the range.
type DayInfo struct {
	Date       time.Time `json:"date"`
	Key        string    `json:"key"`
	Class      DayClass  `json:"class"`
	IsInRun    bool      `json:"is_in_run"`
	IsRunStart bool      `json:"is_run_start"`
	IsRunEnd   bool      `json:"is_run_end"`
}

// ClassifyDay resolves the classification of one date. Conditions are
// mutually exclusive and evaluated in fixed priority order:
// before-creation > holiday > complete > partial > missed > neutral.
func ClassifyDay(snap *Snapshot, date, today time.Time) DayClass {
	if DayStart(date).Before(DayStart(snap.CreatedAt)) {
		return DayBeforeCreation
	}
	if InAnyHoliday(date, snap.Holidays, snap.HabitID, snap.TaskIDs) {
		return DayHoliday
	}

	state := ResolveDay(snap, DateKey(date))
	if state.Complete {
		return DayInStreak
	}
	if state.Partial {
		return DayPartial
	}
	if isMissed(snap, date, today) {
		return DayMissed
	}
	return DayNeutral
}

// isMissed applies the missed rule: the day must be strictly in the past,
// and for weekly habits the entire week must have elapsed unsatisfied.
// Days inside an unfinished or already-satisfied week are never missed.
func isMissed(snap *Snapshot, date, today time.Time) bool {
	if !IsPastDay(date, today) {
		return false
	}
	if snap.Frequency != FrequencyWeekly {
		return true
	}
	if ResolveWeek(snap, date) {
		return false
	}
	return WeekEnd(date).Before(DayStart(today))
}

// inRunClass reports whether the class participates in run segmentation.
// Partial and neutral days sit between runs, they never join one.
func inRunClass(c DayClass) bool {
	return c == DayInStreak || c == DayMissed || c == DayHoliday
}

// ClassifyRange classifies a contiguous list of calendar dates (typically
// a visible month grid) and computes run boundaries by looking only at the
// immediate predecessor and successor of each date.
func ClassifyRange(snap *Snapshot, dates []time.Time, today time.Time) []DayInfo {
	out := make([]DayInfo, len(dates))
	for i, date := range dates {
		class := ClassifyDay(snap, date, today)
		info := DayInfo{
			Date:  DayStart(date),
			Key:   DateKey(date),
			Class: class,
		}
		if inRunClass(class) {
			info.IsInRun = true
			prev := ClassifyDay(snap, date.AddDate(0, 0, -1), today)
			next := ClassifyDay(snap, date.AddDate(0, 0, 1), today)
			info.IsRunStart = prev != class
			info.IsRunEnd = next != class
		}
		out[i] = info
	}
	return out
}
