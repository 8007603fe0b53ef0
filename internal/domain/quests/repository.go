package quests

import (
	"context"
	"errors"

	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrQuestNotFound = errors.New("quest not found")
	ErrInvalidInput  = errors.New("invalid input")
)

type Repository interface {
	Create(ctx context.Context, quest *Quest) error
	FindByID(ctx context.Context, id uuid.UUID) (*Quest, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Quest, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetProgress(ctx context.Context, questID uuid.UUID) (*QuestProgress, error)
	SaveProgress(ctx context.Context, progress *QuestProgress) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, quest *Quest) error {
	return r.db.WithContext(ctx).Create(quest).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Quest, error) {
	var quest Quest
	result := r.db.WithContext(ctx).First(&quest, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, result.Error
	}
	return &quest, nil
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]Quest, error) {
	var quests []Quest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quests).Error
	return quests, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Quest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestNotFound
	}
	return nil
}

func (r *repository) GetProgress(ctx context.Context, questID uuid.UUID) (*QuestProgress, error) {
	var progress QuestProgress
	result := r.db.WithContext(ctx).
		Where("quest_id = ?", questID).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &progress, nil
}

func (r *repository) SaveProgress(ctx context.Context, progress *QuestProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}
