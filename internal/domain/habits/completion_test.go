package habits

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSnapshot(createdAt time.Time, taskIDs []uuid.UUID) *Snapshot {
	return &Snapshot{
		HabitID:   uuid.New(),
		Frequency: FrequencyDaily,
		CreatedAt: createdAt,
		TaskIDs:   taskIDs,
		Days:      make(map[string]DailyTaskProgress),
	}
}

func completeDay(snap *Snapshot, key string) {
	done := make(map[uuid.UUID]bool, len(snap.TaskIDs))
	for _, id := range snap.TaskIDs {
		done[id] = true
	}
	snap.Days[key] = DailyTaskProgress{CompletedTasks: done, AllCompleted: true}
}

func TestResolveDay(t *testing.T) {
	taskA := uuid.New()
	taskB := uuid.New()
	taskC := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	t.Run("complete only when every task is done", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{taskA, taskB, taskC})
		snap.Days["2024-01-05"] = DailyTaskProgress{
			CompletedTasks: map[uuid.UUID]bool{taskA: true, taskB: true, taskC: true},
		}

		state := ResolveDay(snap, "2024-01-05")
		assert.True(t, state.Complete)
		assert.False(t, state.Partial)
		assert.Equal(t, 3, state.CompletedCount)
		assert.Equal(t, 3, state.TotalCount)
	})

	t.Run("partial when some tasks are done", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{taskA, taskB, taskC})
		snap.Days["2024-01-05"] = DailyTaskProgress{
			CompletedTasks: map[uuid.UUID]bool{taskA: true},
		}

		state := ResolveDay(snap, "2024-01-05")
		assert.False(t, state.Complete)
		assert.True(t, state.Partial)
		assert.Equal(t, 1, state.CompletedCount)
	})

	t.Run("missing day resolves to zero completions", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{taskA, taskB})
		state := ResolveDay(snap, "2024-01-05")
		assert.False(t, state.Complete)
		assert.False(t, state.Partial)
		assert.Equal(t, 0, state.CompletedCount)
		assert.Equal(t, 2, state.TotalCount)
	})

	t.Run("stale task ids in the record are ignored", func(t *testing.T) {
		// A task deleted after completion must not count toward the
		// remaining task list.
		snap := testSnapshot(created, []uuid.UUID{taskA, taskB})
		deleted := uuid.New()
		snap.Days["2024-01-05"] = DailyTaskProgress{
			CompletedTasks: map[uuid.UUID]bool{taskA: true, deleted: true},
		}

		state := ResolveDay(snap, "2024-01-05")
		assert.False(t, state.Complete)
		assert.Equal(t, 1, state.CompletedCount)
	})

	t.Run("habit without tasks falls back to the done bit", func(t *testing.T) {
		snap := testSnapshot(created, nil)
		snap.Days["2024-01-05"] = DailyTaskProgress{AllCompleted: true}

		state := ResolveDay(snap, "2024-01-05")
		assert.True(t, state.Complete)
		assert.Equal(t, 0, state.TotalCount)

		assert.False(t, ResolveDay(snap, "2024-01-06").Complete)
	})
}

func TestResolveWeek(t *testing.T) {
	task := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	t.Run("one complete day satisfies the whole week", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		snap.Frequency = FrequencyWeekly
		// Wednesday 2024-02-07, week Mon 02-05 .. Sun 02-11.
		completeDay(snap, "2024-02-07")

		for d := 5; d <= 11; d++ {
			date := time.Date(2024, 2, d, 0, 0, 0, 0, time.Local)
			assert.True(t, ResolveWeek(snap, date), "day %d", d)
		}

		// Adjacent weeks are untouched.
		assert.False(t, ResolveWeek(snap, time.Date(2024, 2, 4, 0, 0, 0, 0, time.Local)))
		assert.False(t, ResolveWeek(snap, time.Date(2024, 2, 12, 0, 0, 0, 0, time.Local)))
	})

	t.Run("toggling a redundant day does not change the result", func(t *testing.T) {
		snap := testSnapshot(created, []uuid.UUID{task})
		snap.Frequency = FrequencyWeekly
		completeDay(snap, "2024-02-07")
		completeDay(snap, "2024-02-08")

		wednesday := time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local)
		assert.True(t, ResolveWeek(snap, wednesday))

		// Un-marking Thursday leaves Wednesday holding the week.
		delete(snap.Days, "2024-02-08")
		assert.True(t, ResolveWeek(snap, wednesday))

		// Un-marking the last complete day empties the week.
		delete(snap.Days, "2024-02-07")
		assert.False(t, ResolveWeek(snap, wednesday))
	})
}
