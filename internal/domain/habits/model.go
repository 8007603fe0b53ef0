package habits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Frequency is the cadence at which a habit expects completion. Monthly
// and custom habits resolve day-by-day like daily ones; only weekly habits
// use the flexible-day week rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

type Habit struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	Title         string      `gorm:"size:255;not null"`
	Description   string      `gorm:"type:text"`
	Frequency     Frequency   `gorm:"size:16;not null;default:'daily'"`
	CurrentStreak int         `gorm:"default:0;not null"`
	BestStreak    int         `gorm:"default:0;not null"`
	Tasks         []HabitTask `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `gorm:"not null;default:current_timestamp"`
	UpdatedAt     time.Time   `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// HabitTask is one sub-task of a habit. A habit with no tasks is completed
// through the day's done bit instead.
type HabitTask struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	Position  int       `gorm:"default:0;not null"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp"`
}

// DayProgress is the persisted per-day completion record for a habit.
// CompletedTasks holds the set of completed task ids as a JSON array of
// strings; AllCompleted is true iff every active task id is present (or,
// for task-less habits, the day was marked done directly).
type DayProgress struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HabitID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_habit_day,priority:1"`
	DateKey        string         `gorm:"size:10;not null;uniqueIndex:idx_habit_day,priority:2"`
	CompletedTasks datatypes.JSON `gorm:"type:jsonb"`
	AllCompleted   bool           `gorm:"default:false;not null"`
	CreatedAt      time.Time      `gorm:"not null;default:current_timestamp"`
	UpdatedAt      time.Time      `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// HolidayPeriod is an inclusive calendar range during which a habit (or a
// subset of its tasks) is exempt from miss tracking. An empty TaskIDs
// array means the whole habit is in scope.
type HolidayPeriod struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HabitID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	StartDate time.Time      `gorm:"not null"`
	EndDate   time.Time      `gorm:"not null"`
	TaskIDs   datatypes.JSON `gorm:"type:jsonb"`
	Message   string         `gorm:"size:255"`
	CreatedAt time.Time      `gorm:"not null;default:current_timestamp"`
}

// StreakHistory represents a historical record of a finished streak run,
// logged before the running counter is reset.
type StreakHistory struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	HabitID       uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       time.Time `gorm:"not null"`
	StreakLength  int       `gorm:"not null"`
	CompletedDays int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;default:current_timestamp"`
}

func (Habit) TableName() string         { return "habits" }
func (HabitTask) TableName() string     { return "habit_tasks" }
func (DayProgress) TableName() string   { return "habit_day_progress" }
func (HolidayPeriod) TableName() string { return "holiday_periods" }
func (StreakHistory) TableName() string { return "streak_histories" }

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a habit record
func (h *Habit) BeforeUpdate(tx *gorm.DB) error {
	h.UpdatedAt = time.Now()
	return nil
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Frequency   Frequency `json:"frequency"`
	TaskNames   []string  `json:"task_names"`
	UserID      uuid.UUID `json:"user_id"`
}

// UpdateHabitInput represents the input for updating a habit
type UpdateHabitInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
}

// DailyTaskProgress is the in-memory view of one day's record inside a
// Snapshot: the completed-task id set plus the done bit.
type DailyTaskProgress struct {
	CompletedTasks map[uuid.UUID]bool
	AllCompleted   bool
}

// HolidaySpan is the engine view of a HolidayPeriod, normalized to day
// granularity by the repository.
type HolidaySpan struct {
	ID      uuid.UUID
	HabitID uuid.UUID
	Start   time.Time
	End     time.Time
	TaskIDs []uuid.UUID
	Message string
}

// Snapshot is an immutable view of a single habit's records. Every rules
// function computes over a Snapshot; none of them touch storage. The
// repository assembles it from the persisted rows so recomputation never
// depends on hidden state.
type Snapshot struct {
	HabitID   uuid.UUID
	Frequency Frequency
	CreatedAt time.Time
	TaskIDs   []uuid.UUID
	Days      map[string]DailyTaskProgress
	Holidays  []HolidaySpan
}
