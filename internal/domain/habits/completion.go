package habits

import "time"

// DayState is the resolved completion state of a single calendar day.
type DayState struct {
	Complete       bool `json:"complete"`
	Partial        bool `json:"partial"`
	CompletedCount int  `json:"completed_count"`
	TotalCount     int  `json:"total_count"`
}

// ResolveDay resolves the completion state of the day identified by key.
// A missing or malformed key resolves as zero completions. Habits without
// tasks fall back to the day's done bit so the percent math never divides
// by zero.
func ResolveDay(snap *Snapshot, key string) DayState {
	prog, ok := snap.Days[key]
	total := len(snap.TaskIDs)

	if total == 0 {
		if ok && prog.AllCompleted {
			return DayState{Complete: true}
		}
		return DayState{}
	}

	if !ok {
		return DayState{TotalCount: total}
	}

	count := 0
	for _, id := range snap.TaskIDs {
		if prog.CompletedTasks[id] {
			count++
		}
	}

	return DayState{
		Complete:       count == total,
		Partial:        count > 0 && count < total,
		CompletedCount: count,
		TotalCount:     total,
	}
}

// ResolveWeek reports whether the Monday-start week containing anyDate is
// satisfied. A weekly habit is satisfied for the whole week by a single
// fully-completed day; weeks are never partially credited.
func ResolveWeek(snap *Snapshot, anyDate time.Time) bool {
	start := WeekStart(anyDate)
	for i := 0; i < 7; i++ {
		if ResolveDay(snap, DateKey(start.AddDate(0, 0, i))).Complete {
			return true
		}
	}
	return false
}
