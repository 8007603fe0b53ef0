package dto

import (
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/google/uuid"
)

// CreateHabitRequest represents the request body for creating a habit
type CreateHabitRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	Frequency   string   `json:"frequency" binding:"omitempty,oneof=daily weekly monthly custom"`
	TaskNames   []string `json:"task_names" binding:"max=20,dive,max=255"`
}

// UpdateHabitRequest represents the request body for updating a habit
type UpdateHabitRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Frequency   *string `json:"frequency" binding:"omitempty,oneof=daily weekly monthly custom"`
}

// ToggleTaskRequest flips one task's completion for a date.
type ToggleTaskRequest struct {
	TaskID uuid.UUID `json:"task_id" binding:"required"`
	Date   string    `json:"date" binding:"required"`
}

// MarkDayRequest marks a whole day done or undone for task-less habits.
type MarkDayRequest struct {
	Date string `json:"date" binding:"required"`
	Done *bool  `json:"done" binding:"required"`
}

// StartHolidayRequest opens a holiday period over [start_date, end_date].
type StartHolidayRequest struct {
	StartDate string      `json:"start_date" binding:"required"`
	EndDate   string      `json:"end_date" binding:"required"`
	TaskIDs   []uuid.UUID `json:"task_ids"`
	Message   string      `json:"message" binding:"max=500"`
}

// TaskResponse represents a habit task in responses
type TaskResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
}

// HabitResponse represents a habit in responses
type HabitResponse struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Frequency     string         `json:"frequency"`
	CurrentStreak int            `json:"current_streak"`
	BestStreak    int            `json:"best_streak"`
	Tasks         []TaskResponse `json:"tasks"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// HabitListResponse wraps a paginated list of habits
type HabitListResponse struct {
	Habits     []HabitResponse `json:"habits"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// HolidayResponse represents a holiday period in responses
type HolidayResponse struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Message   string    `json:"message,omitempty"`
}

// StreakHistoryResponse represents one archived streak run
type StreakHistoryResponse struct {
	ID            uuid.UUID `json:"id"`
	HabitID       uuid.UUID `json:"habit_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	StreakLength  int       `json:"streak_length"`
	CompletedDays int       `json:"completed_days"`
	CreatedAt     time.Time `json:"created_at"`
}

// CalendarResponse wraps classified days for calendar rendering
type CalendarResponse struct {
	HabitID uuid.UUID        `json:"habit_id"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	Days    []habits.DayInfo `json:"days"`
}

// HabitActivitySummaryResponse summarizes activity counts by action
type HabitActivitySummaryResponse struct {
	HabitID      uuid.UUID      `json:"habit_id"`
	ActionCounts map[string]int `json:"action_counts"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	TotalActions int            `json:"total_actions"`
}
