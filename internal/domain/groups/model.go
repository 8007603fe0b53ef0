package groups

import (
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupHabit is a habit shared by a group. Completion is per-member; the
// group-level streak, XP and tier are derived from how many members
// complete each day.
type GroupHabit struct {
	ID                       uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GroupID                  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title                    string           `gorm:"size:255;not null"`
	Description              string           `gorm:"type:text"`
	Frequency                habits.Frequency `gorm:"size:16;not null;default:'daily'"`
	CurrentStreak            int              `gorm:"default:0;not null"`
	LongestStreak            int              `gorm:"default:0;not null"`
	LastWeeklyCompletionDate *time.Time       `gorm:"default:null"`
	ExceptionUsed            bool             `gorm:"default:false;not null"`
	XP                       int              `gorm:"default:0;not null"`
	SaversAvailable          int              `gorm:"default:0;not null"`
	Members                  []GroupMember    `gorm:"foreignKey:GroupHabitID;constraint:OnDelete:CASCADE"`
	Tasks                    []GroupTask      `gorm:"foreignKey:GroupHabitID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time        `gorm:"not null;default:current_timestamp"`
	UpdatedAt                time.Time        `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

type GroupMember struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GroupHabitID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	JoinedAt     time.Time `gorm:"not null;default:current_timestamp"`
}

type GroupTask struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GroupHabitID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"size:255;not null"`
	Position     int       `gorm:"default:0;not null"`
	CreatedAt    time.Time `gorm:"not null;default:current_timestamp"`
}

// GroupCompletion is one member's completion record for one day, with an
// optional task id for habits that track sub-tasks.
type GroupCompletion struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GroupHabitID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_completion,priority:1"`
	MemberID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_completion,priority:2"`
	DateKey      string     `gorm:"size:10;not null;uniqueIndex:idx_group_completion,priority:3"`
	TaskID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_group_completion,priority:4"`
	CreatedAt    time.Time  `gorm:"not null;default:current_timestamp"`
}

// GroupDay is the per-day validation record. PrevStreak holds the streak
// value at the moment a failure reset it so a streak saver can restore it.
type GroupDay struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	GroupHabitID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_day,priority:1"`
	DateKey        string     `gorm:"size:10;not null;uniqueIndex:idx_group_day,priority:2"`
	Status         DayStatus  `gorm:"size:32;not null;default:'pending'"`
	CompletionRate float64    `gorm:"default:0;not null"`
	Finalized      bool       `gorm:"default:false;not null"`
	SaverUsed      bool       `gorm:"default:false;not null"`
	PrevStreak     int        `gorm:"default:0;not null"`
	FailedAt       *time.Time `gorm:"default:null"`
	XPAwarded      int        `gorm:"default:0;not null"`
	CreatedAt      time.Time  `gorm:"not null;default:current_timestamp"`
	UpdatedAt      time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

func (GroupHabit) TableName() string      { return "group_habits" }
func (GroupMember) TableName() string     { return "group_members" }
func (GroupTask) TableName() string       { return "group_tasks" }
func (GroupCompletion) TableName() string { return "group_completions" }
func (GroupDay) TableName() string        { return "group_days" }

// BeforeCreate is called before creating a new group habit record
func (g *GroupHabit) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = time.Now()
	g.UpdatedAt = time.Now()
	return nil
}

// CreateGroupHabitInput represents the input for creating a group habit
type CreateGroupHabitInput struct {
	GroupID     uuid.UUID        `json:"group_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Frequency   habits.Frequency `json:"frequency"`
	TaskNames   []string         `json:"task_names"`
	MemberIDs   []uuid.UUID      `json:"member_ids"`
	Savers      int              `json:"savers"`
}
