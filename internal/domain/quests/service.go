package quests

import (
	"context"
	"errors"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/events"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	CreateQuest(ctx context.Context, input CreateQuestInput) (*Quest, error)
	GetQuest(ctx context.Context, id uuid.UUID) (*QuestView, error)
	ListQuests(ctx context.Context, userID uuid.UUID) ([]QuestView, error)
	DeleteQuest(ctx context.Context, id uuid.UUID) error

	// AdvanceProgress reports a new raw counter value for a quest. Progress
	// is monotonic: a lower raw value than previously seen is ignored, and
	// a completed quest stays completed no matter what comes in afterwards.
	AdvanceProgress(ctx context.Context, questID uuid.UUID, raw int) (*QuestView, error)
}

// QuestView joins a quest with its derived display progress.
type QuestView struct {
	Quest       Quest      `json:"quest"`
	Progress    Progress   `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type service struct {
	repo   Repository
	redis  *cache.RedisClient
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		redis:  redis,
		logger: logger,
		now:    time.Now,
	}
}

func (s *service) CreateQuest(ctx context.Context, input CreateQuestInput) (*Quest, error) {
	if input.Title == "" || input.Target <= 0 {
		return nil, ErrInvalidInput
	}

	rewardType := input.RewardType
	if rewardType == "" {
		rewardType = RewardXP
	}

	quest := &Quest{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Target:      input.Target,
		RewardType:  rewardType,
		RewardValue: input.RewardValue,
		RewardTitle: input.RewardTitle,
		ExpiresAt:   input.ExpiresAt,
	}

	if err := s.repo.Create(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

func (s *service) GetQuest(ctx context.Context, id uuid.UUID) (*QuestView, error) {
	quest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	progress, err := s.loadProgress(ctx, quest.ID)
	if err != nil {
		return nil, err
	}
	return s.view(quest, progress), nil
}

func (s *service) ListQuests(ctx context.Context, userID uuid.UUID) ([]QuestView, error) {
	quests, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]QuestView, 0, len(quests))
	for i := range quests {
		progress, err := s.loadProgress(ctx, quests[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *s.view(&quests[i], progress))
	}
	return views, nil
}

func (s *service) DeleteQuest(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AdvanceProgress(ctx context.Context, questID uuid.UUID, raw int) (*QuestView, error) {
	quest, err := s.repo.FindByID(ctx, questID)
	if err != nil {
		return nil, err
	}

	progress, err := s.loadProgress(ctx, questID)
	if err != nil {
		return nil, err
	}

	// Completion is sticky: once terminal, later raw values are ignored.
	if progress.Completed {
		return s.view(quest, progress), nil
	}

	// A raw value below what was already tracked never moves progress
	// backwards.
	if raw > progress.Raw {
		progress.Raw = raw
	}

	if IsComplete(progress.Raw, quest.Target) {
		progress.Completed = true
		completedAt := s.now()
		progress.CompletedAt = &completedAt
	}

	if err := s.repo.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	if progress.Completed {
		s.publishEvent(ctx, &events.GamificationEvent{
			EventType: events.EventQuestCompleted,
			UserID:    quest.UserID,
			EntityID:  quest.ID,
			Timestamp: s.now().UTC(),
			Details: map[string]interface{}{
				"title":        quest.Title,
				"target":       quest.Target,
				"reward_type":  string(quest.RewardType),
				"reward_value": quest.RewardValue,
			},
		})
	}

	return s.view(quest, progress), nil
}

// loadProgress fetches the tracked progress for a quest, materializing an
// empty record when none exists yet.
func (s *service) loadProgress(ctx context.Context, questID uuid.UUID) (*QuestProgress, error) {
	progress, err := s.repo.GetProgress(ctx, questID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &QuestProgress{
			ID:      uuid.New(),
			QuestID: questID,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *service) view(quest *Quest, progress *QuestProgress) *QuestView {
	display := ComputeProgress(progress.Raw, quest.Target)
	if progress.Completed {
		// Terminal quests always display full progress, even if the raw
		// counter later drifted.
		display = Progress{Capped: quest.Target, Percent: 100}
	}
	return &QuestView{
		Quest:       *quest,
		Progress:    display,
		Completed:   progress.Completed,
		CompletedAt: progress.CompletedAt,
	}
}

func (s *service) publishEvent(ctx context.Context, event *events.GamificationEvent) {
	if s.redis == nil {
		return
	}
	if err := s.redis.PublishGamificationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish gamification event", zap.Error(err))
	}
}
