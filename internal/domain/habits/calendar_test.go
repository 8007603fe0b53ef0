package habits

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDay(t *testing.T) {
	taskA := uuid.New()
	taskB := uuid.New()
	created := day(2024, 1, 5)
	today := day(2024, 1, 20)

	newSnap := func() *Snapshot {
		return testSnapshot(created, []uuid.UUID{taskA, taskB})
	}

	t.Run("before creation wins over everything", func(t *testing.T) {
		snap := newSnap()
		completeDay(snap, "2024-01-03")
		assert.Equal(t, DayBeforeCreation, ClassifyDay(snap, day(2024, 1, 3), today))
	})

	t.Run("holiday wins over a completed day", func(t *testing.T) {
		snap := newSnap()
		completeDay(snap, "2024-01-10")
		snap.Holidays = []HolidaySpan{{
			HabitID: snap.HabitID,
			Start:   day(2024, 1, 10),
			End:     day(2024, 1, 10),
		}}
		assert.Equal(t, DayHoliday, ClassifyDay(snap, day(2024, 1, 10), today))
	})

	t.Run("complete partial missed neutral", func(t *testing.T) {
		snap := newSnap()
		completeDay(snap, "2024-01-10")
		snap.Days["2024-01-11"] = DailyTaskProgress{
			CompletedTasks: map[uuid.UUID]bool{taskA: true},
		}

		tests := []struct {
			name     string
			date     time.Time
			expected DayClass
		}{
			{"all tasks done", day(2024, 1, 10), DayInStreak},
			{"some tasks done", day(2024, 1, 11), DayPartial},
			{"empty past day", day(2024, 1, 12), DayMissed},
			{"today without progress", day(2024, 1, 20), DayNeutral},
			{"future day", day(2024, 1, 25), DayNeutral},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, ClassifyDay(snap, tt.date, today))
			})
		}
	})

	t.Run("weekly days are not missed inside a satisfied week", func(t *testing.T) {
		snap := newSnap()
		snap.Frequency = FrequencyWeekly
		// Wednesday 2024-01-10 holds the week of Mon 01-08.
		completeDay(snap, "2024-01-10")

		assert.Equal(t, DayInStreak, ClassifyDay(snap, day(2024, 1, 10), today))
		assert.Equal(t, DayNeutral, ClassifyDay(snap, day(2024, 1, 9), today))
		assert.Equal(t, DayNeutral, ClassifyDay(snap, day(2024, 1, 12), today))
	})

	t.Run("weekly days are not missed while the week is open", func(t *testing.T) {
		snap := newSnap()
		snap.Frequency = FrequencyWeekly
		// today is Saturday 2024-01-20, week of 01-15 still open.
		assert.Equal(t, DayNeutral, ClassifyDay(snap, day(2024, 1, 16), today))
		// Week of 01-08 fully elapsed and unsatisfied.
		assert.Equal(t, DayMissed, ClassifyDay(snap, day(2024, 1, 9), today))
	})
}

func TestClassifyRange(t *testing.T) {
	task := uuid.New()
	created := day(2024, 1, 1)
	today := day(2024, 1, 20)

	snap := testSnapshot(created, []uuid.UUID{task})
	completeDay(snap, "2024-01-08")
	completeDay(snap, "2024-01-09")
	completeDay(snap, "2024-01-10")

	var dates []time.Time
	for d := 7; d <= 12; d++ {
		dates = append(dates, day(2024, 1, d))
	}

	infos := ClassifyRange(snap, dates, today)
	assert.Len(t, infos, 6)

	byKey := make(map[string]DayInfo, len(infos))
	for _, info := range infos {
		byKey[info.Key] = info
	}

	// 01-08..01-10 form one streak run.
	assert.True(t, byKey["2024-01-08"].IsRunStart)
	assert.False(t, byKey["2024-01-08"].IsRunEnd)
	assert.True(t, byKey["2024-01-09"].IsInRun)
	assert.False(t, byKey["2024-01-09"].IsRunStart)
	assert.False(t, byKey["2024-01-09"].IsRunEnd)
	assert.True(t, byKey["2024-01-10"].IsRunEnd)

	// The missed days on either side form their own runs.
	assert.Equal(t, DayMissed, byKey["2024-01-07"].Class)
	assert.True(t, byKey["2024-01-07"].IsInRun)
	assert.True(t, byKey["2024-01-07"].IsRunEnd)
	assert.Equal(t, DayMissed, byKey["2024-01-11"].Class)
	assert.True(t, byKey["2024-01-11"].IsRunStart)
	assert.False(t, byKey["2024-01-11"].IsRunEnd)

	// Run boundaries come from neighbors outside the requested range too:
	// 01-12 continues into the missed 01-13 beyond the slice.
	assert.False(t, byKey["2024-01-12"].IsRunEnd)
}

func TestClassifyRangePartialBreaksRuns(t *testing.T) {
	taskA := uuid.New()
	taskB := uuid.New()
	created := day(2024, 1, 1)
	today := day(2024, 1, 20)

	snap := testSnapshot(created, []uuid.UUID{taskA, taskB})
	completeDay(snap, "2024-01-08")
	snap.Days["2024-01-09"] = DailyTaskProgress{
		CompletedTasks: map[uuid.UUID]bool{taskA: true},
	}
	completeDay(snap, "2024-01-10")

	infos := ClassifyRange(snap, []time.Time{day(2024, 1, 8), day(2024, 1, 9), day(2024, 1, 10)}, today)

	assert.True(t, infos[0].IsRunEnd)
	assert.Equal(t, DayPartial, infos[1].Class)
	assert.False(t, infos[1].IsInRun)
	assert.True(t, infos[2].IsRunStart)
}
