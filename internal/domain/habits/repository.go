package habits

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPeriod    = errors.New("holiday period start date is after end date")
	ErrPeriodNotFound   = errors.New("holiday period not found")
	ErrProgressNotFound = errors.New("day progress not found")
)

// HabitFilter defines the filtering options for habits
type HabitFilter struct {
	UserID   *uuid.UUID
	Title    *string
	Page     int
	PageSize int
}

// Repository defines the interface for habit persistence operations. The
// engine itself is pure; everything stateful funnels through here.
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ToggleTask atomically flips one task's membership in the day's
	// completed set and recomputes the done bit, returning the full
	// updated row.
	ToggleTask(ctx context.Context, habitID, taskID uuid.UUID, dateKey string) (*DayProgress, error)
	SetDayDone(ctx context.Context, habitID uuid.UUID, dateKey string, done bool) (*DayProgress, error)

	// GetSnapshot assembles the immutable record view the rules engine
	// computes over.
	GetSnapshot(ctx context.Context, habitID uuid.UUID) (*Snapshot, error)
	SaveStreak(ctx context.Context, habitID uuid.UUID, current, best int) error
	GetActiveStreakHabits(ctx context.Context) ([]Habit, error)

	CreateHolidayPeriod(ctx context.Context, period *HolidayPeriod) error
	EndHolidayPeriod(ctx context.Context, periodID uuid.UUID, endDate time.Time) error
	ListHolidayPeriods(ctx context.Context, habitID uuid.UUID) ([]HolidayPeriod, error)

	LogStreakHistory(ctx context.Context, habitID uuid.UUID, streakLength int, endDate time.Time) error
	GetStreakHistory(ctx context.Context, habitID uuid.UUID) ([]StreakHistory, error)

	RecordHabitActivity(ctx context.Context, analytics *HabitAnalytics) error
	GetHabitActivitySummary(ctx context.Context, habitID uuid.UUID, startTime, endTime time.Time) (map[string]int, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	var habit Habit
	result := r.db.WithContext(ctx).Preload("Tasks").First(&habit, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	var habits []Habit
	var total int64
	query := r.db.WithContext(ctx).Model(&Habit{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Title != nil {
		query = query.Where("title LIKE ?", "%"+*filter.Title+"%")
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if filter.PageSize == 0 {
		filter.PageSize = 10000
	}

	err = query.Preload("Tasks").
		Offset(filter.Page * filter.PageSize).
		Limit(filter.PageSize).
		Find(&habits).Error
	if err != nil {
		return nil, 0, err
	}

	return habits, total, nil
}

func (r *repository) Update(ctx context.Context, habit *Habit) error {
	result := r.db.WithContext(ctx).Save(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Habit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// decodeTaskSet unpacks a JSON array of task id strings. Malformed or
// missing payloads decode to an empty set rather than an error.
func decodeTaskSet(raw datatypes.JSON) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool)
	if len(raw) == 0 {
		return set
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return set
	}
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			set[id] = true
		}
	}
	return set
}

func encodeTaskSet(set map[uuid.UUID]bool) datatypes.JSON {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id.String())
	}
	raw, _ := json.Marshal(ids)
	return raw
}

func (r *repository) ToggleTask(ctx context.Context, habitID, taskID uuid.UUID, dateKey string) (*DayProgress, error) {
	var progress DayProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task HabitTask
		if err := tx.First(&task, "id = ? AND habit_id = ?", taskID, habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var total int64
		if err := tx.Model(&HabitTask{}).Where("habit_id = ?", habitID).Count(&total).Error; err != nil {
			return err
		}

		err := tx.Where("habit_id = ? AND date_key = ?", habitID, dateKey).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = DayProgress{
				ID:      uuid.New(),
				HabitID: habitID,
				DateKey: dateKey,
			}
			err = nil
		}
		if err != nil {
			return err
		}

		set := decodeTaskSet(progress.CompletedTasks)
		if set[taskID] {
			delete(set, taskID)
		} else {
			set[taskID] = true
		}

		progress.CompletedTasks = encodeTaskSet(set)
		progress.AllCompleted = int64(len(set)) == total && total > 0
		progress.UpdatedAt = time.Now()

		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *repository) SetDayDone(ctx context.Context, habitID uuid.UUID, dateKey string, done bool) (*DayProgress, error) {
	var progress DayProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("habit_id = ? AND date_key = ?", habitID, dateKey).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = DayProgress{
				ID:      uuid.New(),
				HabitID: habitID,
				DateKey: dateKey,
			}
			err = nil
		}
		if err != nil {
			return err
		}

		progress.AllCompleted = done
		progress.UpdatedAt = time.Now()
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *repository) GetSnapshot(ctx context.Context, habitID uuid.UUID) (*Snapshot, error) {
	habit, err := r.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	var rows []DayProgress
	if err := r.db.WithContext(ctx).Where("habit_id = ?", habitID).Find(&rows).Error; err != nil {
		return nil, err
	}

	var periods []HolidayPeriod
	if err := r.db.WithContext(ctx).Where("habit_id = ?", habitID).Find(&periods).Error; err != nil {
		return nil, err
	}

	snap := &Snapshot{
		HabitID:   habit.ID,
		Frequency: habit.Frequency,
		CreatedAt: habit.CreatedAt,
		Days:      make(map[string]DailyTaskProgress, len(rows)),
	}

	for _, task := range habit.Tasks {
		snap.TaskIDs = append(snap.TaskIDs, task.ID)
	}

	for _, row := range rows {
		snap.Days[row.DateKey] = DailyTaskProgress{
			CompletedTasks: decodeTaskSet(row.CompletedTasks),
			AllCompleted:   row.AllCompleted,
		}
	}

	for _, p := range periods {
		snap.Holidays = append(snap.Holidays, HolidaySpan{
			ID:      p.ID,
			HabitID: p.HabitID,
			Start:   p.StartDate,
			End:     p.EndDate,
			TaskIDs: decodeTaskList(p.TaskIDs),
			Message: p.Message,
		})
	}

	return snap, nil
}

func encodeTaskSlice(ids []uuid.UUID) datatypes.JSON {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return encodeTaskSet(set)
}

func decodeTaskList(raw datatypes.JSON) []uuid.UUID {
	var out []uuid.UUID
	for id := range decodeTaskSet(raw) {
		out = append(out, id)
	}
	return out
}

func (r *repository) SaveStreak(ctx context.Context, habitID uuid.UUID, current, best int) error {
	return r.db.WithContext(ctx).Model(&Habit{}).
		Where("id = ?", habitID).
		Updates(map[string]interface{}{
			"current_streak": current,
			"best_streak":    best,
		}).Error
}

func (r *repository) GetActiveStreakHabits(ctx context.Context) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("current_streak > 0").
		Find(&habits).Error
	return habits, err
}

func (r *repository) CreateHolidayPeriod(ctx context.Context, period *HolidayPeriod) error {
	if DayStart(period.StartDate).After(DayStart(period.EndDate)) {
		return ErrInvalidPeriod
	}
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *repository) EndHolidayPeriod(ctx context.Context, periodID uuid.UUID, endDate time.Time) error {
	result := r.db.WithContext(ctx).Model(&HolidayPeriod{}).
		Where("id = ?", periodID).
		Update("end_date", DayStart(endDate))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (r *repository) ListHolidayPeriods(ctx context.Context, habitID uuid.UUID) ([]HolidayPeriod, error) {
	var periods []HolidayPeriod
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) LogStreakHistory(ctx context.Context, habitID uuid.UUID, streakLength int, endDate time.Time) error {
	startDate := DayStart(endDate).AddDate(0, 0, -streakLength+1)

	history := StreakHistory{
		ID:            uuid.New(),
		HabitID:       habitID,
		StartDate:     startDate,
		EndDate:       DayStart(endDate),
		StreakLength:  streakLength,
		CompletedDays: streakLength,
		CreatedAt:     time.Now(),
	}

	return r.db.WithContext(ctx).Create(&history).Error
}

func (r *repository) GetStreakHistory(ctx context.Context, habitID uuid.UUID) ([]StreakHistory, error) {
	var history []StreakHistory
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("end_date DESC").
		Find(&history).Error
	return history, err
}

func (r *repository) RecordHabitActivity(ctx context.Context, analytics *HabitAnalytics) error {
	return r.db.WithContext(ctx).Create(analytics).Error
}

func (r *repository) GetHabitActivitySummary(ctx context.Context, habitID uuid.UUID, startTime, endTime time.Time) (map[string]int, error) {
	var results []struct {
		Action string
		Count  int
	}

	err := r.db.WithContext(ctx).Model(&HabitAnalytics{}).
		Select("action, count(*) as count").
		Where("habit_id = ? AND timestamp BETWEEN ? AND ?", habitID, startTime, endTime).
		Group("action").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	summary := make(map[string]int)
	for _, result := range results {
		summary[result.Action] = result.Count
	}

	return summary, nil
}
