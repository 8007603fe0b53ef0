package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateGroupHabitRequest represents the request body for creating a
// group habit
type CreateGroupHabitRequest struct {
	GroupID     uuid.UUID   `json:"group_id" binding:"required"`
	Title       string      `json:"title" binding:"required,max=255"`
	Description string      `json:"description" binding:"max=1000"`
	Frequency   string      `json:"frequency" binding:"omitempty,oneof=daily weekly"`
	TaskNames   []string    `json:"task_names" binding:"max=20,dive,max=255"`
	MemberIDs   []uuid.UUID `json:"member_ids" binding:"required,min=1"`
	Savers      int         `json:"savers" binding:"min=0,max=10"`
}

// RecordGroupCompletionRequest records one member's completion for a date.
type RecordGroupCompletionRequest struct {
	MemberID uuid.UUID  `json:"member_id" binding:"required"`
	Date     string     `json:"date" binding:"required"`
	TaskID   *uuid.UUID `json:"task_id"`
}

// AddGroupMemberRequest adds a user to a group habit.
type AddGroupMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// GroupMemberResponse represents a member in responses
type GroupMemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupHabitResponse represents a group habit in responses
type GroupHabitResponse struct {
	ID              uuid.UUID             `json:"id"`
	GroupID         uuid.UUID             `json:"group_id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Frequency       string                `json:"frequency"`
	CurrentStreak   int                   `json:"current_streak"`
	LongestStreak   int                   `json:"longest_streak"`
	ExceptionUsed   bool                  `json:"exception_used"`
	XP              int                   `json:"xp"`
	SaversAvailable int                   `json:"savers_available"`
	Members         []GroupMemberResponse `json:"members"`
	Tasks           []TaskResponse        `json:"tasks"`
	CreatedAt       time.Time             `json:"created_at"`
}
