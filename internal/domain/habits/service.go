package habits

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/events"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error)
	DeleteHabit(ctx context.Context, id uuid.UUID) error

	// ToggleTask flips one task for one date and returns the re-derived
	// state: day resolution, streak, tier and any newly crossed milestones.
	ToggleTask(ctx context.Context, habitID, userID, taskID uuid.UUID, date time.Time) (*ToggleResult, error)
	MarkDayDone(ctx context.Context, habitID, userID uuid.UUID, date time.Time, done bool) (*ToggleResult, error)

	GetCalendar(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]DayInfo, error)
	GetStreakStatus(ctx context.Context, habitID uuid.UUID) (*StreakStatus, error)
	GetStreakHistory(ctx context.Context, habitID uuid.UUID) ([]StreakHistory, error)

	StartHoliday(ctx context.Context, input StartHolidayInput) (*HolidayPeriod, error)
	EndHoliday(ctx context.Context, habitID, periodID uuid.UUID) error
	ListHolidays(ctx context.Context, habitID uuid.UUID) ([]HolidayPeriod, error)

	// RecomputeBrokenStreaks replays every habit with an active streak and
	// persists the authoritative value, logging history for broken runs.
	RecomputeBrokenStreaks(ctx context.Context) (int64, error)

	RecordHabitActivity(ctx context.Context, input RecordHabitActivityInput) error
	GetHabitActivitySummary(ctx context.Context, habitID uuid.UUID, startTime, endTime time.Time) (*HabitActivitySummary, error)
}

// ToggleResult is the full derived state returned after a completion write
// so the presentation layer never recomputes on its own.
type ToggleResult struct {
	Day           DayState     `json:"day"`
	WeekSatisfied bool         `json:"week_satisfied"`
	CurrentStreak int          `json:"current_streak"`
	BestStreak    int          `json:"best_streak"`
	Tier          TierProgress `json:"tier"`
	NewMilestones []Milestone  `json:"new_milestones,omitempty"`
}

// StreakStatus bundles the streak-derived read model for one habit.
type StreakStatus struct {
	CurrentStreak int          `json:"current_streak"`
	BestStreak    int          `json:"best_streak"`
	Tier          TierProgress `json:"tier"`
	Unlocked      []Milestone  `json:"unlocked_milestones"`
	NextMilestone *Milestone   `json:"next_milestone,omitempty"`
	DaysToNext    int          `json:"days_to_next"`
	OnHoliday     bool         `json:"on_holiday"`
}

// StartHolidayInput creates a holiday period; empty TaskIDs covers the
// whole habit.
type StartHolidayInput struct {
	HabitID   uuid.UUID   `json:"habit_id"`
	UserID    uuid.UUID   `json:"user_id"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	TaskIDs   []uuid.UUID `json:"task_ids,omitempty"`
	Message   string      `json:"message,omitempty"`
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

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = FrequencyDaily
	}

	habit := &Habit{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Frequency:   frequency,
	}

	for i, name := range input.TaskNames {
		habit.Tasks = append(habit.Tasks, HabitTask{
			ID:       uuid.New(),
			HabitID:  habit.ID,
			Name:     name,
			Position: i,
		})
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, habit.ID, input.UserID, ActionHabitCreated, map[string]interface{}{
		"title":     habit.Title,
		"frequency": string(habit.Frequency),
		"tasks":     len(habit.Tasks),
	})
	s.publishInvalidate(ctx, input.UserID, habit.ID, "habit_created")

	return habit, nil
}

func (s *service) GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Title != nil && habit.Title != *input.Title {
		habit.Title = *input.Title
		changed = true
	}
	if input.Description != nil && habit.Description != *input.Description {
		habit.Description = *input.Description
		changed = true
	}
	if input.Frequency != nil && habit.Frequency != *input.Frequency {
		habit.Frequency = *input.Frequency
		changed = true
	}

	if !changed {
		return habit, nil
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	// A frequency change redefines what counts as a completed period, so
	// the streak is replayed immediately.
	if input.Frequency != nil {
		if _, _, err := s.recomputeStreak(ctx, habit.ID); err != nil {
			s.logger.Error("failed to recompute streak after frequency change",
				zap.String("habit_id", habit.ID.String()), zap.Error(err))
		}
	}

	s.recordActivity(ctx, habit.ID, habit.UserID, ActionHabitUpdated, map[string]interface{}{
		"title": habit.Title,
	})
	s.publishInvalidate(ctx, habit.UserID, habit.ID, "habit_updated")

	return habit, nil
}

func (s *service) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.recordActivity(ctx, habit.ID, habit.UserID, ActionHabitDeleted, map[string]interface{}{
		"title":          habit.Title,
		"current_streak": habit.CurrentStreak,
		"best_streak":    habit.BestStreak,
	})
	s.publishInvalidate(ctx, habit.UserID, habit.ID, "habit_deleted")

	return s.repo.Delete(ctx, id)
}

func (s *service) ToggleTask(ctx context.Context, habitID, userID, taskID uuid.UUID, date time.Time) (*ToggleResult, error) {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	prevStreak := habit.CurrentStreak
	dateKey := DateKey(date)

	if _, err := s.repo.ToggleTask(ctx, habitID, taskID, dateKey); err != nil {
		return nil, err
	}

	result, snap, err := s.deriveResult(ctx, habitID, dateKey, date)
	if err != nil {
		return nil, err
	}

	s.emitRewards(ctx, habit, userID, prevStreak, result, snap)

	s.recordActivity(ctx, habitID, userID, ActionTaskToggled, map[string]interface{}{
		"task_id":  taskID.String(),
		"date_key": dateKey,
		"complete": result.Day.Complete,
	})
	s.publishInvalidate(ctx, userID, habitID, "task_toggled")

	return result, nil
}

func (s *service) MarkDayDone(ctx context.Context, habitID, userID uuid.UUID, date time.Time, done bool) (*ToggleResult, error) {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	// The done bit is the completion fallback for habits without tasks;
	// habits with tasks complete through ToggleTask only.
	if len(habit.Tasks) > 0 {
		return nil, ErrInvalidInput
	}

	prevStreak := habit.CurrentStreak
	dateKey := DateKey(date)

	if _, err := s.repo.SetDayDone(ctx, habitID, dateKey, done); err != nil {
		return nil, err
	}

	result, snap, err := s.deriveResult(ctx, habitID, dateKey, date)
	if err != nil {
		return nil, err
	}

	s.emitRewards(ctx, habit, userID, prevStreak, result, snap)

	action := ActionDayCompleted
	if !done {
		action = ActionDayUncompleted
	}
	s.recordActivity(ctx, habitID, userID, action, map[string]interface{}{
		"date_key": dateKey,
	})
	s.publishInvalidate(ctx, userID, habitID, action)

	return result, nil
}

// deriveResult re-derives the full read model after any completion write.
func (s *service) deriveResult(ctx context.Context, habitID uuid.UUID, dateKey string, date time.Time) (*ToggleResult, *Snapshot, error) {
	snap, err := s.repo.GetSnapshot(ctx, habitID)
	if err != nil {
		return nil, nil, err
	}

	today := s.now()
	current := ComputeStreak(snap, today)
	best := ComputeBestStreak(snap, today)

	if err := s.repo.SaveStreak(ctx, habitID, current, best); err != nil {
		return nil, nil, err
	}

	result := &ToggleResult{
		Day:           ResolveDay(snap, dateKey),
		CurrentStreak: current,
		BestStreak:    best,
		Tier:          TierForStreak(current),
	}
	if snap.Frequency == FrequencyWeekly {
		result.WeekSatisfied = ResolveWeek(snap, date)
	}

	return result, snap, nil
}

// emitRewards compares the streak before and after a write and publishes
// milestone and tier events for newly crossed thresholds. Milestone
// bookkeeping beyond the diff (what was already celebrated) lives with the
// subscriber.
func (s *service) emitRewards(ctx context.Context, habit *Habit, userID uuid.UUID, prevStreak int, result *ToggleResult, snap *Snapshot) {
	before := UnlockedMilestones(prevStreak)
	after := UnlockedMilestones(result.CurrentStreak)
	if len(after) > len(before) {
		result.NewMilestones = after[len(before):]
		for _, m := range result.NewMilestones {
			s.recordActivity(ctx, habit.ID, userID, ActionStreakMilestone, map[string]interface{}{
				"days":  m.Days,
				"title": m.Title,
			})
			s.publishEvent(ctx, &events.GamificationEvent{
				EventType: events.EventStreakMilestone,
				UserID:    userID,
				EntityID:  habit.ID,
				Timestamp: s.now().UTC(),
				Details: map[string]interface{}{
					"days":      m.Days,
					"title":     m.Title,
					"xp_reward": m.XPReward,
				},
			})
		}
	}

	prevTier := TierForStreak(prevStreak).Tier
	newTier := result.Tier.Tier
	if newTier.MinStreak > prevTier.MinStreak {
		s.recordActivity(ctx, habit.ID, userID, ActionTierUp, map[string]interface{}{
			"tier": newTier.Name,
		})
		s.publishEvent(ctx, &events.GamificationEvent{
			EventType: events.EventTierUp,
			UserID:    userID,
			EntityID:  habit.ID,
			Timestamp: s.now().UTC(),
			Details: map[string]interface{}{
				"tier":          newTier.Name,
				"xp_multiplier": newTier.XPMultiplier,
			},
		})
	}
}

func (s *service) GetCalendar(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]DayInfo, error) {
	snap, err := s.repo.GetSnapshot(ctx, habitID)
	if err != nil {
		return nil, err
	}

	start := DayStart(from)
	end := DayStart(to)
	if start.After(end) {
		return nil, ErrInvalidInput
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return ClassifyRange(snap, dates, s.now()), nil
}

func (s *service) GetStreakStatus(ctx context.Context, habitID uuid.UUID) (*StreakStatus, error) {
	snap, err := s.repo.GetSnapshot(ctx, habitID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	current := ComputeStreak(snap, today)
	best := ComputeBestStreak(snap, today)

	return &StreakStatus{
		CurrentStreak: current,
		BestStreak:    best,
		Tier:          TierForStreak(current),
		Unlocked:      UnlockedMilestones(best),
		NextMilestone: NextMilestone(current),
		DaysToNext:    DaysToNext(current),
		OnHoliday:     ActivePeriod(today, snap.Holidays, habitID) != nil,
	}, nil
}

func (s *service) GetStreakHistory(ctx context.Context, habitID uuid.UUID) ([]StreakHistory, error) {
	if _, err := s.repo.FindByID(ctx, habitID); err != nil {
		return nil, err
	}
	return s.repo.GetStreakHistory(ctx, habitID)
}

func (s *service) StartHoliday(ctx context.Context, input StartHolidayInput) (*HolidayPeriod, error) {
	if _, err := s.repo.FindByID(ctx, input.HabitID); err != nil {
		return nil, err
	}

	period := &HolidayPeriod{
		ID:        uuid.New(),
		HabitID:   input.HabitID,
		StartDate: DayStart(input.StartDate),
		EndDate:   DayStart(input.EndDate),
		TaskIDs:   encodeTaskSlice(input.TaskIDs),
		Message:   input.Message,
	}

	if err := s.repo.CreateHolidayPeriod(ctx, period); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, input.HabitID, input.UserID, ActionHolidayStarted, map[string]interface{}{
		"start_date": period.StartDate.Format(time.RFC3339),
		"end_date":   period.EndDate.Format(time.RFC3339),
		"task_count": len(input.TaskIDs),
	})
	s.publishInvalidate(ctx, input.UserID, input.HabitID, "holiday_started")

	return period, nil
}

func (s *service) EndHoliday(ctx context.Context, habitID, periodID uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return err
	}

	// Ending a holiday today means the exemption covers through yesterday.
	yesterday := DayStart(s.now()).AddDate(0, 0, -1)
	if err := s.repo.EndHolidayPeriod(ctx, periodID, yesterday); err != nil {
		return err
	}

	s.recordActivity(ctx, habitID, habit.UserID, ActionHolidayEnded, map[string]interface{}{
		"period_id": periodID.String(),
	})
	s.publishInvalidate(ctx, habit.UserID, habitID, "holiday_ended")

	return nil
}

func (s *service) ListHolidays(ctx context.Context, habitID uuid.UUID) ([]HolidayPeriod, error) {
	return s.repo.ListHolidayPeriods(ctx, habitID)
}

func (s *service) RecomputeBrokenStreaks(ctx context.Context) (int64, error) {
	habits, err := s.repo.GetActiveStreakHabits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch active streaks: %w", err)
	}

	var reset int64
	for _, habit := range habits {
		current, snap, err := s.recomputeStreak(ctx, habit.ID)
		if err != nil {
			s.logger.Error("failed to recompute streak",
				zap.String("habit_id", habit.ID.String()), zap.Error(err))
			continue
		}

		if current < habit.CurrentStreak {
			lastComplete := lastCompleteDay(snap, s.now())
			if err := s.repo.LogStreakHistory(ctx, habit.ID, habit.CurrentStreak, lastComplete); err != nil {
				s.logger.Error("failed to log streak history",
					zap.String("habit_id", habit.ID.String()), zap.Error(err))
			}

			s.recordActivity(ctx, habit.ID, habit.UserID, ActionStreakBroken, map[string]interface{}{
				"broken_streak": habit.CurrentStreak,
			})
			s.publishEvent(ctx, &events.GamificationEvent{
				EventType: events.EventStreakBroken,
				UserID:    habit.UserID,
				EntityID:  habit.ID,
				Timestamp: s.now().UTC(),
				Details: map[string]interface{}{
					"broken_streak": habit.CurrentStreak,
				},
			})
			reset++
		}
	}

	return reset, nil
}

// recomputeStreak replays and persists the authoritative streak counters.
func (s *service) recomputeStreak(ctx context.Context, habitID uuid.UUID) (int, *Snapshot, error) {
	snap, err := s.repo.GetSnapshot(ctx, habitID)
	if err != nil {
		return 0, nil, err
	}

	today := s.now()
	current := ComputeStreak(snap, today)
	best := ComputeBestStreak(snap, today)

	if err := s.repo.SaveStreak(ctx, habitID, current, best); err != nil {
		return 0, nil, err
	}
	return current, snap, nil
}

// lastCompleteDay finds the most recent complete day at or before today,
// used as the end date when archiving a broken run.
func lastCompleteDay(snap *Snapshot, today time.Time) time.Time {
	start := DayStart(snap.CreatedAt)
	for d := DayStart(today); !d.Before(start); d = d.AddDate(0, 0, -1) {
		if ResolveDay(snap, DateKey(d)).Complete {
			return d
		}
	}
	return start
}

func (s *service) RecordHabitActivity(ctx context.Context, input RecordHabitActivityInput) error {
	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	metadata := ""
	if input.Metadata != nil {
		if metadataJSON, err := json.Marshal(input.Metadata); err == nil {
			metadata = string(metadataJSON)
		}
	}

	analytics := &HabitAnalytics{
		ID:        uuid.New(),
		HabitID:   input.HabitID,
		UserID:    input.UserID,
		Action:    input.Action,
		Timestamp: timestamp,
		Metadata:  metadata,
	}

	return s.repo.RecordHabitActivity(ctx, analytics)
}

func (s *service) GetHabitActivitySummary(ctx context.Context, habitID uuid.UUID, startTime, endTime time.Time) (*HabitActivitySummary, error) {
	if _, err := s.repo.FindByID(ctx, habitID); err != nil {
		return nil, err
	}

	actionCounts, err := s.repo.GetHabitActivitySummary(ctx, habitID, startTime, endTime)
	if err != nil {
		return nil, err
	}

	totalActions := 0
	for _, count := range actionCounts {
		totalActions += count
	}

	return &HabitActivitySummary{
		HabitID:      habitID,
		ActionCounts: actionCounts,
		StartTime:    startTime,
		EndTime:      endTime,
		TotalActions: totalActions,
	}, nil
}

func (s *service) recordActivity(ctx context.Context, habitID, userID uuid.UUID, action string, metadata map[string]interface{}) {
	err := s.RecordHabitActivity(ctx, RecordHabitActivityInput{
		HabitID:  habitID,
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	})
	if err != nil {
		s.logger.Error("failed to record habit activity",
			zap.String("action", action), zap.Error(err))
	}
}

func (s *service) publishInvalidate(ctx context.Context, userID, habitID uuid.UUID, action string) {
	s.publishEvent(ctx, &events.GamificationEvent{
		EventType: events.EventCacheInvalidate,
		UserID:    userID,
		EntityID:  habitID,
		Timestamp: s.now().UTC(),
		Details:   map[string]interface{}{"action": action},
	})
}

func (s *service) publishEvent(ctx context.Context, event *events.GamificationEvent) {
	if s.redis == nil {
		return
	}
	if err := s.redis.PublishGamificationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish gamification event", zap.Error(err))
	}
}
