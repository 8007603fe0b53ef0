package groups

import (
	"context"
	"testing"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeRepository keeps group habits, completions and days in memory so the
// service lifecycle can be exercised without a database.
type fakeRepository struct {
	habits      map[uuid.UUID]*GroupHabit
	completions []GroupCompletion
	days        map[string]*GroupDay
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		habits: make(map[uuid.UUID]*GroupHabit),
		days:   make(map[string]*GroupDay),
	}
}

func fakeDayKey(groupHabitID uuid.UUID, dateKey string) string {
	return groupHabitID.String() + ":" + dateKey
}

func (f *fakeRepository) Create(_ context.Context, habit *GroupHabit) error {
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id uuid.UUID) (*GroupHabit, error) {
	habit, ok := f.habits[id]
	if !ok {
		return nil, ErrGroupHabitNotFound
	}
	return habit, nil
}

func (f *fakeRepository) FindAll(_ context.Context) ([]GroupHabit, error) {
	var out []GroupHabit
	for _, h := range f.habits {
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeRepository) Update(_ context.Context, habit *GroupHabit) error {
	if _, ok := f.habits[habit.ID]; !ok {
		return ErrGroupHabitNotFound
	}
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.habits[id]; !ok {
		return ErrGroupHabitNotFound
	}
	delete(f.habits, id)
	return nil
}

func (f *fakeRepository) AddMember(_ context.Context, member *GroupMember) error {
	habit, ok := f.habits[member.GroupHabitID]
	if !ok {
		return ErrGroupHabitNotFound
	}
	habit.Members = append(habit.Members, *member)
	return nil
}

func (f *fakeRepository) RecordCompletion(_ context.Context, completion *GroupCompletion) (bool, error) {
	for _, c := range f.completions {
		if c.GroupHabitID == completion.GroupHabitID &&
			c.MemberID == completion.MemberID &&
			c.DateKey == completion.DateKey &&
			sameTaskRef(c.TaskID, completion.TaskID) {
			return false, nil
		}
	}
	f.completions = append(f.completions, *completion)
	return true, nil
}

func sameTaskRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (f *fakeRepository) GetDayCompletions(_ context.Context, groupHabitID uuid.UUID, dateKey string) ([]GroupCompletion, error) {
	var out []GroupCompletion
	for _, c := range f.completions {
		if c.GroupHabitID == groupHabitID && c.DateKey == dateKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetDay(_ context.Context, groupHabitID uuid.UUID, dateKey string) (*GroupDay, error) {
	day, ok := f.days[fakeDayKey(groupHabitID, dateKey)]
	if !ok {
		return nil, ErrDayNotFound
	}
	copied := *day
	return &copied, nil
}

func (f *fakeRepository) UpsertDay(_ context.Context, day *GroupDay) error {
	copied := *day
	f.days[fakeDayKey(day.GroupHabitID, day.DateKey)] = &copied
	return nil
}

func (f *fakeRepository) GetWeekDays(_ context.Context, groupHabitID uuid.UUID, dateKeys []string) ([]GroupDay, error) {
	var out []GroupDay
	for _, key := range dateKeys {
		if day, ok := f.days[fakeDayKey(groupHabitID, key)]; ok {
			out = append(out, *day)
		}
	}
	return out, nil
}

func (f *fakeRepository) AddXP(_ context.Context, groupHabitID uuid.UUID, delta int) (int, error) {
	habit, ok := f.habits[groupHabitID]
	if !ok {
		return 0, ErrGroupHabitNotFound
	}
	habit.XP += delta
	return habit.XP, nil
}

// clock is a controllable time source for the service under test.
type clock struct {
	current time.Time
}

func (c *clock) now() time.Time { return c.current }

func newTestService(repo Repository, c *clock) *service {
	return &service{
		repo:        repo,
		logger:      zap.NewNop(),
		saverWindow: 24 * time.Hour,
		threshold:   DefaultExceptionThreshold,
		now:         c.now,
	}
}

func onDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func seedGroupHabit(repo *fakeRepository, memberCount, savers int) *GroupHabit {
	habit := &GroupHabit{
		ID:              uuid.New(),
		GroupID:         uuid.New(),
		Title:           "Morning run",
		Frequency:       habits.FrequencyDaily,
		SaversAvailable: savers,
		CreatedAt:       onDay(2023, 12, 1),
	}
	for i := 0; i < memberCount; i++ {
		habit.Members = append(habit.Members, GroupMember{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			UserID:       uuid.New(),
		})
	}
	repo.habits[habit.ID] = habit
	return habit
}

// completeMembers records a task-less completion for the first n members.
func completeMembers(repo *fakeRepository, habit *GroupHabit, date time.Time, n int) {
	key := habits.DateKey(date)
	for i := 0; i < n; i++ {
		repo.completions = append(repo.completions, GroupCompletion{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			MemberID:     habit.Members[i].ID,
			DateKey:      key,
		})
	}
}

func TestFinalizeDayLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("full house days credit the streak once each", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 3)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		completeMembers(repo, habit, onDay(2024, 1, 1), 4)
		completeMembers(repo, habit, onDay(2024, 1, 2), 4)

		day, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 1))
		assert.NoError(t, err)
		assert.Equal(t, DayValidated, day.Status)
		assert.Equal(t, 1, habit.CurrentStreak)

		_, err = svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 2))
		assert.NoError(t, err)
		assert.Equal(t, 2, habit.CurrentStreak)
		assert.Equal(t, 2, habit.LongestStreak)
	})

	t.Run("finalizing the same day twice is idempotent", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 2)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		completeMembers(repo, habit, onDay(2024, 1, 1), 4)

		_, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 1))
		assert.NoError(t, err)
		day, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 1))
		assert.NoError(t, err)
		assert.Equal(t, DayValidated, day.Status)
		assert.Equal(t, 1, habit.CurrentStreak)
	})

	t.Run("exception grace returns after a full failure", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 4)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		// Day one: half the group completes and spends the grace.
		completeMembers(repo, habit, onDay(2024, 1, 1), 2)
		day, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 1))
		assert.NoError(t, err)
		assert.Equal(t, DayValidatedWithException, day.Status)
		assert.True(t, habit.ExceptionUsed)
		assert.Equal(t, 1, habit.CurrentStreak)

		// Day two: nobody completes; the streak period ends.
		day, err = svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 2))
		assert.NoError(t, err)
		assert.Equal(t, DayFailed, day.Status)
		assert.Equal(t, 0, habit.CurrentStreak)
		assert.Equal(t, 1, day.PrevStreak)
		assert.NotNil(t, day.FailedAt)
		assert.False(t, habit.ExceptionUsed)

		// Day three: the first partial day of the new period gets the
		// grace again.
		completeMembers(repo, habit, onDay(2024, 1, 3), 2)
		day, err = svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 3))
		assert.NoError(t, err)
		assert.Equal(t, DayValidatedWithException, day.Status)
		assert.True(t, habit.ExceptionUsed)
		assert.Equal(t, 1, habit.CurrentStreak)
	})

	t.Run("second partial day within one period fails", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 3)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		completeMembers(repo, habit, onDay(2024, 1, 1), 2)
		completeMembers(repo, habit, onDay(2024, 1, 2), 2)

		day, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 1))
		assert.NoError(t, err)
		assert.Equal(t, DayValidatedWithException, day.Status)

		day, err = svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 2))
		assert.NoError(t, err)
		assert.Equal(t, DayFailed, day.Status)
	})
}

func TestApplyStreakSaver(t *testing.T) {
	ctx := context.Background()

	// failAfterStreak builds a three day streak, then fails the fourth day.
	failAfterStreak := func(savers int) (*fakeRepository, *clock, *service, *GroupHabit) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 5)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, savers)

		for d := 1; d <= 3; d++ {
			completeMembers(repo, habit, onDay(2024, 1, d), 4)
			_, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, d))
			assert.NoError(t, err)
		}
		assert.Equal(t, 3, habit.CurrentStreak)

		day, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, 4))
		assert.NoError(t, err)
		assert.Equal(t, DayFailed, day.Status)
		assert.Equal(t, 0, habit.CurrentStreak)

		return repo, c, svc, habit
	}

	t.Run("saver restores the pre-failure streak", func(t *testing.T) {
		_, c, svc, habit := failAfterStreak(1)

		c.current = c.current.Add(6 * time.Hour)
		day, err := svc.ApplyStreakSaver(ctx, habit.ID, onDay(2024, 1, 4))
		assert.NoError(t, err)
		assert.Equal(t, DayValidated, day.Status)
		assert.True(t, day.SaverUsed)
		assert.Equal(t, 3, habit.CurrentStreak)
		assert.Equal(t, 0, habit.SaversAvailable)
		assert.False(t, habit.ExceptionUsed)
	})

	t.Run("saver window closes after 24 hours", func(t *testing.T) {
		_, c, svc, habit := failAfterStreak(1)

		c.current = c.current.Add(25 * time.Hour)
		_, err := svc.ApplyStreakSaver(ctx, habit.ID, onDay(2024, 1, 4))
		assert.ErrorIs(t, err, ErrSaverWindowClosed)
		assert.Equal(t, 0, habit.CurrentStreak)
	})

	t.Run("no saver available", func(t *testing.T) {
		_, _, svc, habit := failAfterStreak(0)

		_, err := svc.ApplyStreakSaver(ctx, habit.ID, onDay(2024, 1, 4))
		assert.ErrorIs(t, err, ErrNoSaverAvailable)
	})

	t.Run("saver only applies to failed days", func(t *testing.T) {
		_, _, svc, habit := failAfterStreak(1)

		_, err := svc.ApplyStreakSaver(ctx, habit.ID, onDay(2024, 1, 3))
		assert.ErrorIs(t, err, ErrDayNotFailed)
	})
}

func TestPerfectWeekBonus(t *testing.T) {
	ctx := context.Background()

	t.Run("seven validated days earn the bonus on sunday", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 8)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		// Monday 2024-01-01 through Sunday 2024-01-07.
		for d := 1; d <= 7; d++ {
			completeMembers(repo, habit, onDay(2024, 1, d), 4)
			_, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, d))
			assert.NoError(t, err)
		}

		assert.Equal(t, 7, habit.CurrentStreak)
		assert.Equal(t, XPPerfectWeekBonus, habit.XP)
	})

	t.Run("a failed day forfeits the bonus", func(t *testing.T) {
		repo := newFakeRepository()
		c := &clock{current: onDay(2024, 1, 8)}
		svc := newTestService(repo, c)
		habit := seedGroupHabit(repo, 4, 0)

		for d := 1; d <= 7; d++ {
			if d != 3 {
				completeMembers(repo, habit, onDay(2024, 1, d), 4)
			}
			_, err := svc.FinalizeDay(ctx, habit.ID, onDay(2024, 1, d))
			assert.NoError(t, err)
		}

		assert.Equal(t, 0, habit.XP)
	})
}
