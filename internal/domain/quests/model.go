package quests

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardType is the kind of reward a quest grants on completion.
type RewardType string

const (
	RewardXP    RewardType = "xp"
	RewardBoost RewardType = "boost"
	RewardTitle RewardType = "title"
)

// Quest is a counter-based objective against a fixed target.
type Quest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	Target      int        `gorm:"not null"`
	RewardType  RewardType `gorm:"size:16;not null;default:'xp'"`
	// RewardValue is XP amount, boost duration in hours, or unused for
	// title rewards.
	RewardValue int        `gorm:"default:0;not null"`
	RewardTitle string     `gorm:"size:255"`
	ExpiresAt   *time.Time `gorm:"default:null"`
	CreatedAt   time.Time  `gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// QuestProgress is the tracked state of one quest. Raw holds the
// uncapped counter; display values derive from Progress.
type QuestProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	QuestID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Raw         int        `gorm:"default:0;not null"`
	Completed   bool       `gorm:"default:false;not null"`
	CompletedAt *time.Time `gorm:"default:null"`
	CreatedAt   time.Time  `gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

func (Quest) TableName() string         { return "quests" }
func (QuestProgress) TableName() string { return "quest_progress" }

// BeforeCreate is called before creating a new quest record
func (q *Quest) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()
	return nil
}

// CreateQuestInput represents the input for creating a quest
type CreateQuestInput struct {
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      int        `json:"target"`
	RewardType  RewardType `json:"reward_type"`
	RewardValue int        `json:"reward_value"`
	RewardTitle string     `json:"reward_title,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
