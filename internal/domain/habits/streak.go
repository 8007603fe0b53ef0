package habits

import "time"

// ComputeStreak replays the habit's records from its creation day through
// today and returns the authoritative current streak: the maximal trailing
// run of complete periods ending at today or the most recent complete
// period. Holiday-exempt periods preserve the run without incrementing it.
// Days before creation never count. The stored counter is always rewritten
// from this replay, so it can never drift from the records.
func ComputeStreak(snap *Snapshot, today time.Time) int {
	if snap.Frequency == FrequencyWeekly {
		return replayWeeks(snap, today, false)
	}
	return replayDays(snap, today, false)
}

// ComputeBestStreak replays the same way but returns the highest streak
// ever reached, including the current one.
func ComputeBestStreak(snap *Snapshot, today time.Time) int {
	if snap.Frequency == FrequencyWeekly {
		return replayWeeks(snap, today, true)
	}
	return replayDays(snap, today, true)
}

func replayDays(snap *Snapshot, today time.Time, best bool) int {
	start := DayStart(snap.CreatedAt)
	end := DayStart(today)
	if start.After(end) {
		return 0
	}

	streak, max := 0, 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch {
		case ResolveDay(snap, DateKey(d)).Complete:
			streak++
		case InAnyHoliday(d, snap.Holidays, snap.HabitID, snap.TaskIDs):
			// exempt day: run survives, counter unchanged
		case d.Before(end):
			streak = 0
		default:
			// today is still in progress; an incomplete today breaks nothing
		}
		if streak > max {
			max = streak
		}
	}

	if best {
		return max
	}
	return streak
}

func replayWeeks(snap *Snapshot, today time.Time, best bool) int {
	start := WeekStart(snap.CreatedAt)
	end := WeekStart(today)
	if start.After(end) {
		return 0
	}

	streak, max := 0, 0
	for w := start; !w.After(end); w = w.AddDate(0, 0, 7) {
		switch {
		case ResolveWeek(snap, w):
			streak++
		case weekExempt(snap, w):
			// holiday covering part of the week preserves the run
		case WeekEnd(w).Before(DayStart(today)):
			streak = 0
		default:
			// current week has not fully elapsed yet
		}
		if streak > max {
			max = streak
		}
	}

	if best {
		return max
	}
	return streak
}

// weekExempt reports whether any day of the week starting at ws is
// holiday-exempt for the habit.
func weekExempt(snap *Snapshot, ws time.Time) bool {
	for i := 0; i < 7; i++ {
		if InAnyHoliday(ws.AddDate(0, 0, i), snap.Holidays, snap.HabitID, snap.TaskIDs) {
			return true
		}
	}
	return false
}
