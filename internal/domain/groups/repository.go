package groups

import (
	"context"
	"errors"

	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrGroupHabitNotFound = errors.New("group habit not found")
	ErrDayNotFound        = errors.New("group day not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoSaverAvailable   = errors.New("no streak saver available")
	ErrSaverWindowClosed  = errors.New("streak saver window has closed")
	ErrDayNotFailed       = errors.New("day is not failed")
)

// Repository defines persistence operations for group habits. Concurrent
// member completions for the same day must be serialized here (the
// engine's evaluation assumes a consistent view of the day).
type Repository interface {
	Create(ctx context.Context, habit *GroupHabit) error
	FindByID(ctx context.Context, id uuid.UUID) (*GroupHabit, error)
	FindAll(ctx context.Context) ([]GroupHabit, error)
	Update(ctx context.Context, habit *GroupHabit) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *GroupMember) error

	// RecordCompletion inserts the completion and reports whether it was
	// new. Resubmitting the same completion is a no-op.
	RecordCompletion(ctx context.Context, completion *GroupCompletion) (bool, error)
	GetDayCompletions(ctx context.Context, groupHabitID uuid.UUID, dateKey string) ([]GroupCompletion, error)

	GetDay(ctx context.Context, groupHabitID uuid.UUID, dateKey string) (*GroupDay, error)
	UpsertDay(ctx context.Context, day *GroupDay) error
	GetWeekDays(ctx context.Context, groupHabitID uuid.UUID, dateKeys []string) ([]GroupDay, error)

	// AddXP atomically adds delta and returns the new cumulative total.
	AddXP(ctx context.Context, groupHabitID uuid.UUID, delta int) (int, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *GroupHabit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*GroupHabit, error) {
	var habit GroupHabit
	result := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Tasks").
		First(&habit, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindAll(ctx context.Context) ([]GroupHabit, error) {
	var habits []GroupHabit
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Tasks").
		Find(&habits).Error
	return habits, err
}

func (r *repository) Update(ctx context.Context, habit *GroupHabit) error {
	result := r.db.WithContext(ctx).Save(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupHabitNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&GroupHabit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupHabitNotFound
	}
	return nil
}

func (r *repository) AddMember(ctx context.Context, member *GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) RecordCompletion(ctx context.Context, completion *GroupCompletion) (bool, error) {
	// The unique index on (habit, member, date, task) makes repeated
	// submissions of the same completion a no-op.
	result := r.db.WithContext(ctx).
		Where(GroupCompletion{
			GroupHabitID: completion.GroupHabitID,
			MemberID:     completion.MemberID,
			DateKey:      completion.DateKey,
			TaskID:       completion.TaskID,
		}).
		FirstOrCreate(completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) GetDayCompletions(ctx context.Context, groupHabitID uuid.UUID, dateKey string) ([]GroupCompletion, error) {
	var completions []GroupCompletion
	err := r.db.WithContext(ctx).
		Where("group_habit_id = ? AND date_key = ?", groupHabitID, dateKey).
		Find(&completions).Error
	return completions, err
}

func (r *repository) GetDay(ctx context.Context, groupHabitID uuid.UUID, dateKey string) (*GroupDay, error) {
	var day GroupDay
	result := r.db.WithContext(ctx).
		Where("group_habit_id = ? AND date_key = ?", groupHabitID, dateKey).
		First(&day)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, result.Error
	}
	return &day, nil
}

func (r *repository) UpsertDay(ctx context.Context, day *GroupDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing GroupDay
		err := tx.Where("group_habit_id = ? AND date_key = ?", day.GroupHabitID, day.DateKey).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if day.ID == uuid.Nil {
				day.ID = uuid.New()
			}
			return tx.Create(day).Error
		}
		if err != nil {
			return err
		}

		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
		return tx.Save(day).Error
	})
}

func (r *repository) GetWeekDays(ctx context.Context, groupHabitID uuid.UUID, dateKeys []string) ([]GroupDay, error) {
	var days []GroupDay
	err := r.db.WithContext(ctx).
		Where("group_habit_id = ? AND date_key IN ?", groupHabitID, dateKeys).
		Order("date_key ASC").
		Find(&days).Error
	return days, err
}

func (r *repository) AddXP(ctx context.Context, groupHabitID uuid.UUID, delta int) (int, error) {
	var newXP int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&GroupHabit{}).
			Where("id = ?", groupHabitID).
			Update("xp", gorm.Expr("xp + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupHabitNotFound
		}

		var habit GroupHabit
		if err := tx.Select("xp").First(&habit, "id = ?", groupHabitID).Error; err != nil {
			return err
		}
		newXP = habit.XP
		return nil
	})
	return newXP, err
}
