package quests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name     string
		raw      int
		target   int
		expected Progress
	}{
		{"zero progress", 0, 10, Progress{Capped: 0, Percent: 0}},
		{"partial progress", 3, 10, Progress{Capped: 3, Percent: 30}},
		{"rounded percent", 1, 3, Progress{Capped: 1, Percent: 33}},
		{"rounds up at the half", 1, 8, Progress{Capped: 1, Percent: 13}},
		{"exact target", 10, 10, Progress{Capped: 10, Percent: 100}},
		{"overshoot caps at target", 15, 10, Progress{Capped: 10, Percent: 100}},
		{"negative raw clamps to zero", -5, 10, Progress{Capped: 0, Percent: 0}},
		{"zero target reads complete", 4, 0, Progress{Capped: 0, Percent: 100}},
		{"negative target reads complete", 4, -2, Progress{Capped: 0, Percent: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeProgress(tt.raw, tt.target))
		})
	}
}

func TestIsComplete(t *testing.T) {
	assert.False(t, IsComplete(7, 8))
	assert.True(t, IsComplete(8, 8))
	assert.True(t, IsComplete(20, 8))
	// A degenerate target is displayed complete but never counts as a win.
	assert.False(t, IsComplete(5, 0))
}

// fakeRepository keeps quests and progress in memory so the service logic
// can be exercised without a database.
type fakeRepository struct {
	quests   map[uuid.UUID]*Quest
	progress map[uuid.UUID]*QuestProgress
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		quests:   make(map[uuid.UUID]*Quest),
		progress: make(map[uuid.UUID]*QuestProgress),
	}
}

func (f *fakeRepository) Create(_ context.Context, quest *Quest) error {
	f.quests[quest.ID] = quest
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id uuid.UUID) (*Quest, error) {
	quest, ok := f.quests[id]
	if !ok {
		return nil, ErrQuestNotFound
	}
	return quest, nil
}

func (f *fakeRepository) FindByUser(_ context.Context, userID uuid.UUID) ([]Quest, error) {
	var out []Quest
	for _, q := range f.quests {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quests[id]; !ok {
		return ErrQuestNotFound
	}
	delete(f.quests, id)
	return nil
}

func (f *fakeRepository) GetProgress(_ context.Context, questID uuid.UUID) (*QuestProgress, error) {
	progress, ok := f.progress[questID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *progress
	return &copied, nil
}

func (f *fakeRepository) SaveProgress(_ context.Context, progress *QuestProgress) error {
	copied := *progress
	f.progress[progress.QuestID] = &copied
	return nil
}

func newTestService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestAdvanceProgress(t *testing.T) {
	ctx := context.Background()

	newQuest := func(repo *fakeRepository, target int) *Quest {
		quest := &Quest{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Title:  "Complete 8 workouts",
			Target: target,
		}
		repo.quests[quest.ID] = quest
		return quest
	}

	t.Run("progress advances and completes at the target", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)
		quest := newQuest(repo, 8)

		view, err := svc.AdvanceProgress(ctx, quest.ID, 3)
		assert.NoError(t, err)
		assert.Equal(t, Progress{Capped: 3, Percent: 38}, view.Progress)
		assert.False(t, view.Completed)

		view, err = svc.AdvanceProgress(ctx, quest.ID, 9)
		assert.NoError(t, err)
		assert.True(t, view.Completed)
		assert.NotNil(t, view.CompletedAt)
		assert.Equal(t, Progress{Capped: 8, Percent: 100}, view.Progress)
	})

	t.Run("completion is sticky against lower raw values", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)
		quest := newQuest(repo, 8)

		_, err := svc.AdvanceProgress(ctx, quest.ID, 9)
		assert.NoError(t, err)

		view, err := svc.AdvanceProgress(ctx, quest.ID, 5)
		assert.NoError(t, err)
		assert.True(t, view.Completed)
		assert.Equal(t, Progress{Capped: 8, Percent: 100}, view.Progress)
	})

	t.Run("raw counter never moves backwards", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)
		quest := newQuest(repo, 10)

		_, err := svc.AdvanceProgress(ctx, quest.ID, 6)
		assert.NoError(t, err)

		view, err := svc.AdvanceProgress(ctx, quest.ID, 4)
		assert.NoError(t, err)
		assert.Equal(t, 6, view.Progress.Capped)
		assert.False(t, view.Completed)
	})

	t.Run("unknown quest", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo)

		_, err := svc.AdvanceProgress(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, ErrQuestNotFound)
	})
}

func TestGetQuestWithoutProgress(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	quest := &Quest{ID: uuid.New(), UserID: uuid.New(), Title: "Read", Target: 5}
	repo.quests[quest.ID] = quest

	view, err := svc.GetQuest(context.Background(), quest.ID)
	assert.NoError(t, err)
	assert.Equal(t, Progress{Capped: 0, Percent: 0}, view.Progress)
	assert.False(t, view.Completed)
}
