package events

import (
	"time"

	"github.com/google/uuid"
)

// Gamification event types published over Redis. Reward events carry
// enough identity (milestone days, tier name) for the celebration queue to
// diff against what it has already shown; the engine itself never tracks
// celebration state.
const (
	EventCacheInvalidate  = "cache_invalidate"
	EventStreakMilestone  = "streak_milestone"
	EventStreakBroken     = "streak_broken"
	EventTierUp           = "tier_up"
	EventGroupDayResolved = "group_day_resolved"
	EventGroupTierUp      = "group_tier_up"
	EventQuestCompleted   = "quest_completed"
)

// GamificationEvent is the payload published for every reward or cache
// invalidation signal.
type GamificationEvent struct {
	EventType string      `json:"event_type"`
	UserID    uuid.UUID   `json:"user_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}
