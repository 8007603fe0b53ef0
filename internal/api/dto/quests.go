package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateQuestRequest represents the request body for creating a quest
type CreateQuestRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description" binding:"max=1000"`
	Target      int        `json:"target" binding:"required,min=1"`
	RewardType  string     `json:"reward_type" binding:"omitempty,oneof=xp boost title"`
	RewardValue int        `json:"reward_value" binding:"min=0"`
	RewardTitle string     `json:"reward_title" binding:"max=255"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// AdvanceQuestRequest reports a new raw progress value for a quest.
type AdvanceQuestRequest struct {
	Raw int `json:"raw" binding:"min=0"`
}

// QuestResponse represents a quest with its derived progress
type QuestResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      int        `json:"target"`
	RewardType  string     `json:"reward_type"`
	RewardValue int        `json:"reward_value"`
	RewardTitle string     `json:"reward_title,omitempty"`
	Capped      int        `json:"capped"`
	Percent     int        `json:"percent"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
