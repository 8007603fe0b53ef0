package habits

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeStreakDaily(t *testing.T) {
	task := uuid.New()
	created := day(2024, 1, 1)

	t.Run("ten complete days from creation", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		for d := 1; d <= 10; d++ {
			completeDay(snap, DateKey(day(2024, 1, d)))
		}
		assert.Equal(t, 10, ComputeStreak(snap, day(2024, 1, 10)))
	})

	t.Run("a fully missed past day resets to zero", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		for d := 1; d <= 10; d++ {
			completeDay(snap, DateKey(day(2024, 1, d)))
		}
		// January 11th passed with no record; by the 12th the run is gone.
		assert.Equal(t, 0, ComputeStreak(snap, day(2024, 1, 12)))
		// Best streak still remembers the run.
		assert.Equal(t, 10, ComputeBestStreak(snap, day(2024, 1, 12)))
	})

	t.Run("holiday preserves the run without extending it", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		for d := 1; d <= 10; d++ {
			completeDay(snap, DateKey(day(2024, 1, d)))
		}
		snap.Holidays = []HolidaySpan{{
			HabitID: snap.HabitID,
			Start:   day(2024, 1, 11),
			End:     day(2024, 1, 12),
		}}

		// Streak is frozen at 10 through the holiday.
		assert.Equal(t, 10, ComputeStreak(snap, day(2024, 1, 12)))

		// Completing the day after the holiday resumes the run at 11.
		completeDay(snap, "2024-01-13")
		assert.Equal(t, 11, ComputeStreak(snap, day(2024, 1, 13)))
	})

	t.Run("incomplete today does not break the run", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		for d := 1; d <= 5; d++ {
			completeDay(snap, DateKey(day(2024, 1, d)))
		}
		assert.Equal(t, 5, ComputeStreak(snap, day(2024, 1, 6)))
	})

	t.Run("days before creation never count", func(t *testing.T) {
		snap := testSnapshot(day(2024, 1, 5), []uuid.UUID{task})
		completeDay(snap, "2024-01-03")
		completeDay(snap, "2024-01-05")
		assert.Equal(t, 1, ComputeStreak(snap, day(2024, 1, 5)))
	})

	t.Run("creation in the future yields zero", func(t *testing.T) {
		snap := testSnapshot(day(2024, 2, 1), []uuid.UUID{task})
		assert.Equal(t, 0, ComputeStreak(snap, day(2024, 1, 15)))
	})
}

func TestComputeStreakWeekly(t *testing.T) {
	task := uuid.New()
	// Monday 2024-01-01.
	created := day(2024, 1, 1)

	newWeekly := func() *Snapshot {
		snap := testSnapshot(created, []uuid.UUID{task})
		snap.Frequency = FrequencyWeekly
		return snap
	}

	t.Run("consecutive satisfied weeks", func(t *testing.T) {
		snap := newWeekly()
		completeDay(snap, "2024-01-03") // week of 01-01
		completeDay(snap, "2024-01-09") // week of 01-08
		completeDay(snap, "2024-01-17") // week of 01-15
		assert.Equal(t, 3, ComputeStreak(snap, day(2024, 1, 17)))
	})

	t.Run("an elapsed empty week resets the run", func(t *testing.T) {
		snap := newWeekly()
		completeDay(snap, "2024-01-03")
		// Week of 01-08 passes empty; by 01-17 the run restarts.
		completeDay(snap, "2024-01-17")
		assert.Equal(t, 1, ComputeStreak(snap, day(2024, 1, 17)))
		assert.Equal(t, 1, ComputeBestStreak(snap, day(2024, 1, 17)))
	})

	t.Run("the current unfinished week breaks nothing", func(t *testing.T) {
		snap := newWeekly()
		completeDay(snap, "2024-01-03")
		completeDay(snap, "2024-01-09")
		// Tuesday of the week of 01-15, nothing done yet this week.
		assert.Equal(t, 2, ComputeStreak(snap, day(2024, 1, 16)))
	})

	t.Run("a holiday touching the week preserves the run", func(t *testing.T) {
		snap := newWeekly()
		completeDay(snap, "2024-01-03")
		snap.Holidays = []HolidaySpan{{
			HabitID: snap.HabitID,
			Start:   day(2024, 1, 10),
			End:     day(2024, 1, 11),
		}}
		completeDay(snap, "2024-01-17")
		assert.Equal(t, 2, ComputeStreak(snap, day(2024, 1, 17)))
	})
}
