package habits

import (
	"time"

	"github.com/google/uuid"
)

// HabitAnalytics represents an analytics record for habit-related activities
type HabitAnalytics struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:varchar(50);not null"`
	Timestamp time.Time `gorm:"not null;default:now()"`
	Metadata  string    `gorm:"type:jsonb"`
}

// TableName specifies the table name for the HabitAnalytics model
func (HabitAnalytics) TableName() string {
	return "habit_analytics"
}

// AnalyticsFilter defines filtering options for habit analytics
type AnalyticsFilter struct {
	HabitID   *uuid.UUID
	UserID    *uuid.UUID
	Action    *string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	PageSize  int
}

// RecordHabitActivityInput is the service-level input for recording an
// activity entry.
type RecordHabitActivityInput struct {
	HabitID   uuid.UUID              `json:"habit_id"`
	UserID    uuid.UUID              `json:"user_id"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp,omitempty"`
}

// HabitActivitySummary aggregates action counts for one habit over a window.
type HabitActivitySummary struct {
	HabitID      uuid.UUID      `json:"habit_id"`
	ActionCounts map[string]int `json:"action_counts"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	TotalActions int            `json:"total_actions"`
}

// Common analytics actions
const (
	ActionHabitCreated    = "habit_created"
	ActionHabitUpdated    = "habit_updated"
	ActionHabitDeleted    = "habit_deleted"
	ActionTaskToggled     = "task_toggled"
	ActionDayCompleted    = "day_completed"
	ActionDayUncompleted  = "day_uncompleted"
	ActionStreakBroken    = "streak_broken"
	ActionStreakMilestone = "streak_milestone"
	ActionTierUp          = "tier_up"
	ActionHolidayStarted  = "holiday_started"
	ActionHolidayEnded    = "holiday_ended"
	ActionCalendarView    = "calendar_view"
)
