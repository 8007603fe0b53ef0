package groups

import (
	"context"
	"fmt"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/events"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/Noxter68/habit-tracking-sub006/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateGroupHabit(ctx context.Context, input CreateGroupHabitInput) (*GroupHabit, error)
	GetGroupHabit(ctx context.Context, id uuid.UUID) (*GroupHabit, error)
	ListGroupHabits(ctx context.Context) ([]GroupHabit, error)
	DeleteGroupHabit(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, groupHabitID, userID uuid.UUID) error

	// RecordCompletion writes one member's completion for one day, accrues
	// XP and re-evaluates the day's validation state. The group streak is
	// never mutated here; that happens in FinalizeDay only.
	RecordCompletion(ctx context.Context, input RecordCompletionInput) (*CompletionResult, error)

	// FinalizeDay settles an elapsed day: validated, validated through the
	// one-time exception, or failed. This is the single place the group
	// streak changes.
	FinalizeDay(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*GroupDay, error)

	// ApplyStreakSaver restores the streak a failed day reset, if applied
	// within the saver window.
	ApplyStreakSaver(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*GroupDay, error)

	// FinalizeElapsedDays settles yesterday for every group habit whose day
	// is still pending. Run after midnight by the scheduler.
	FinalizeElapsedDays(ctx context.Context) (int64, error)

	GetDayStatus(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*DayStatusView, error)
	GetTierStatus(ctx context.Context, groupHabitID uuid.UUID) (*TierStatus, error)
}

// RecordCompletionInput is one member's completion of one task (or of the
// whole day, for habits without tasks) on one date.
type RecordCompletionInput struct {
	GroupHabitID uuid.UUID  `json:"group_habit_id"`
	MemberID     uuid.UUID  `json:"member_id"`
	Date         time.Time  `json:"date"`
	TaskID       *uuid.UUID `json:"task_id,omitempty"`
}

// CompletionResult is the derived state returned after a completion write.
type CompletionResult struct {
	Day       DayOutcome `json:"day"`
	XPAwarded int        `json:"xp_awarded"`
	TotalXP   int        `json:"total_xp"`
	Tier      GroupTier  `json:"tier"`
	TierUp    bool       `json:"tier_up"`
}

// DayStatusView is the read model for one group day.
type DayStatusView struct {
	DateKey        string    `json:"date_key"`
	Status         DayStatus `json:"status"`
	CompletionRate float64   `json:"completion_rate"`
	SaverUsed      bool      `json:"saver_used"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
}

// TierStatus is the XP-derived read model for one group habit.
type TierStatus struct {
	XP       int        `json:"xp"`
	Tier     GroupTier  `json:"tier"`
	NextTier *GroupTier `json:"next_tier,omitempty"`
	XPToNext int        `json:"xp_to_next"`
}

type service struct {
	repo        Repository
	redis       *cache.RedisClient
	logger      *zap.Logger
	saverWindow time.Duration
	threshold   float64
	now         func() time.Time
}

// Options tune the gamification rules; zero values fall back to the
// defaults (24h saver window, 0.5 exception threshold).
type Options struct {
	SaverWindow        time.Duration
	ExceptionThreshold float64
}

func NewService(repo Repository, redis *cache.RedisClient, logger *zap.Logger, opts Options) Service {
	if opts.SaverWindow == 0 {
		opts.SaverWindow = 24 * time.Hour
	}
	if opts.ExceptionThreshold == 0 {
		opts.ExceptionThreshold = DefaultExceptionThreshold
	}
	return &service{
		repo:        repo,
		redis:       redis,
		logger:      logger,
		saverWindow: opts.SaverWindow,
		threshold:   opts.ExceptionThreshold,
		now:         time.Now,
	}
}

func (s *service) CreateGroupHabit(ctx context.Context, input CreateGroupHabitInput) (*GroupHabit, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = habits.FrequencyDaily
	}

	habit := &GroupHabit{
		ID:              uuid.New(),
		GroupID:         input.GroupID,
		Title:           input.Title,
		Description:     input.Description,
		Frequency:       frequency,
		SaversAvailable: input.Savers,
	}

	for i, name := range input.TaskNames {
		habit.Tasks = append(habit.Tasks, GroupTask{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			Name:         name,
			Position:     i,
		})
	}
	for _, userID := range input.MemberIDs {
		habit.Members = append(habit.Members, GroupMember{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			UserID:       userID,
			JoinedAt:     s.now(),
		})
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *service) GetGroupHabit(ctx context.Context, id uuid.UUID) (*GroupHabit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListGroupHabits(ctx context.Context) ([]GroupHabit, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) DeleteGroupHabit(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AddMember(ctx context.Context, groupHabitID, userID uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, groupHabitID)
	if err != nil {
		return err
	}
	for _, m := range habit.Members {
		if m.UserID == userID {
			return nil
		}
	}
	return s.repo.AddMember(ctx, &GroupMember{
		ID:           uuid.New(),
		GroupHabitID: groupHabitID,
		UserID:       userID,
		JoinedAt:     s.now(),
	})
}

func (s *service) RecordCompletion(ctx context.Context, input RecordCompletionInput) (*CompletionResult, error) {
	habit, err := s.repo.FindByID(ctx, input.GroupHabitID)
	if err != nil {
		return nil, err
	}

	member, err := findMember(habit, input.MemberID)
	if err != nil {
		return nil, err
	}
	if input.TaskID != nil && !habitHasTask(habit, *input.TaskID) {
		return nil, ErrInvalidInput
	}

	dateKey := habits.DateKey(input.Date)

	created, err := s.repo.RecordCompletion(ctx, &GroupCompletion{
		ID:           uuid.New(),
		GroupHabitID: habit.ID,
		MemberID:     member.ID,
		DateKey:      dateKey,
		TaskID:       input.TaskID,
	})
	if err != nil {
		return nil, err
	}

	completions, err := s.repo.GetDayCompletions(ctx, habit.ID, dateKey)
	if err != nil {
		return nil, err
	}

	xpDelta := 0
	if created {
		xpDelta = XPPerTask
		if s.memberBecameComplete(habit, completions, member.ID, input.TaskID) {
			xpDelta += XPFullDayBonus
		}
	}

	outcome, err := s.refreshDay(ctx, habit, completions, input.Date, dateKey, xpDelta)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{Day: outcome, XPAwarded: xpDelta}

	if xpDelta > 0 {
		total, err := s.repo.AddXP(ctx, habit.ID, xpDelta)
		if err != nil {
			return nil, err
		}
		result.TotalXP = total
		result.Tier, result.TierUp = TierCrossed(total-xpDelta, total)
		if result.TierUp {
			s.emitTierUp(ctx, habit, result.Tier, total)
		}
	} else {
		result.TotalXP = habit.XP
		result.Tier = GroupTierForXP(habit.XP)
	}

	s.publishInvalidate(ctx, member.UserID, habit.ID, "group_completion")

	return result, nil
}

// memberBecameComplete reports whether this write turned the member's day
// fully complete. Habits without tasks complete on their first record.
func (s *service) memberBecameComplete(habit *GroupHabit, completions []GroupCompletion, memberID uuid.UUID, taskID *uuid.UUID) bool {
	taskIDs := habitTaskIDs(habit)
	if len(taskIDs) == 0 {
		return true
	}

	done := make(map[uuid.UUID]bool)
	for _, c := range completions {
		if c.MemberID == memberID && c.TaskID != nil {
			done[*c.TaskID] = true
		}
	}
	if !memberDayComplete(done, taskIDs) {
		return false
	}

	// Complete now; the write caused the transition only if the member was
	// incomplete without it.
	if taskID == nil {
		return false
	}
	delete(done, *taskID)
	return !memberDayComplete(done, taskIDs)
}

// refreshDay re-evaluates the day record after a completion write without
// touching the streak. A full house validates the day even before it has
// elapsed; the one-time exception is never consumed here because a pending
// day may still fill up on its own.
func (s *service) refreshDay(ctx context.Context, habit *GroupHabit, completions []GroupCompletion, date time.Time, dateKey string, xpDelta int) (DayOutcome, error) {
	snap := DaySnapshot{
		TotalMembers:      len(habit.Members),
		CompletingMembers: CompletingMembers(completions, habitTaskIDs(habit)),
		ExceptionUsed:     habit.ExceptionUsed,
		Elapsed:           s.dayElapsed(date),
		Threshold:         s.threshold,
	}
	outcome := EvaluateDay(snap)

	day, err := s.repo.GetDay(ctx, habit.ID, dateKey)
	if err == ErrDayNotFound {
		day = &GroupDay{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			DateKey:      dateKey,
			Status:       DayPending,
		}
	} else if err != nil {
		return outcome, err
	}

	// Settled days keep their state; late completion records only add XP.
	// The only transition a write can trigger is pending -> validated on a
	// full house. Failure and the exception grace settle in FinalizeDay.
	if day.Status == DayPending && outcome.Status == DayValidated {
		day.Status = DayValidated
	}
	day.CompletionRate = outcome.CompletionRate
	day.XPAwarded += xpDelta

	if err := s.repo.UpsertDay(ctx, day); err != nil {
		return outcome, err
	}
	outcome.Status = day.Status
	return outcome, nil
}

func (s *service) FinalizeDay(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*GroupDay, error) {
	habit, err := s.repo.FindByID(ctx, groupHabitID)
	if err != nil {
		return nil, err
	}

	dateKey := habits.DateKey(date)

	day, err := s.repo.GetDay(ctx, habit.ID, dateKey)
	if err == ErrDayNotFound {
		day = &GroupDay{
			ID:           uuid.New(),
			GroupHabitID: habit.ID,
			DateKey:      dateKey,
			Status:       DayPending,
		}
	} else if err != nil {
		return nil, err
	}

	// Finalizing is idempotent: streak credit and failure apply once.
	if day.Finalized {
		return day, nil
	}

	completions, err := s.repo.GetDayCompletions(ctx, habit.ID, dateKey)
	if err != nil {
		return nil, err
	}

	outcome := EvaluateDay(DaySnapshot{
		TotalMembers:      len(habit.Members),
		CompletingMembers: CompletingMembers(completions, habitTaskIDs(habit)),
		ExceptionUsed:     habit.ExceptionUsed,
		Elapsed:           true,
		Threshold:         s.threshold,
	})

	day.Status = outcome.Status
	day.CompletionRate = outcome.CompletionRate
	day.Finalized = true

	switch outcome.Status {
	case DayValidated, DayValidatedWithException:
		if outcome.ExceptionConsumed {
			habit.ExceptionUsed = true
		}
		s.applyStreakCredit(habit, date)
	case DayFailed:
		s.applyStreakFailure(habit, day, date)
	}

	if err := s.repo.UpsertDay(ctx, day); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	if err := s.awardPerfectWeek(ctx, habit, day, date); err != nil {
		s.logger.Error("failed to award perfect week bonus",
			zap.String("group_habit_id", habit.ID.String()), zap.Error(err))
	}

	s.publishEvent(ctx, &events.GamificationEvent{
		EventType: events.EventGroupDayResolved,
		EntityID:  habit.ID,
		Timestamp: s.now().UTC(),
		Details: map[string]interface{}{
			"date_key":        dateKey,
			"status":          string(day.Status),
			"completion_rate": day.CompletionRate,
			"current_streak":  habit.CurrentStreak,
		},
	})

	return day, nil
}

// applyStreakCredit increments the streak for a validated day. Weekly
// habits earn at most one increment per week, keyed off the last weekly
// completion date.
func (s *service) applyStreakCredit(habit *GroupHabit, date time.Time) {
	if habit.Frequency == habits.FrequencyWeekly {
		if habit.LastWeeklyCompletionDate != nil &&
			habits.WeekStart(*habit.LastWeeklyCompletionDate).Equal(habits.WeekStart(date)) {
			return
		}
		d := habits.DayStart(date)
		habit.LastWeeklyCompletionDate = &d
	}

	habit.CurrentStreak++
	if habit.CurrentStreak > habit.LongestStreak {
		habit.LongestStreak = habit.CurrentStreak
	}
}

// applyStreakFailure resets the streak, remembering the pre-failure value
// so a saver can bring it back. A weekly habit only fails once its whole
// week has elapsed unsatisfied.
func (s *service) applyStreakFailure(habit *GroupHabit, day *GroupDay, date time.Time) {
	if habit.Frequency == habits.FrequencyWeekly {
		if !habits.WeekEnd(date).Equal(habits.DayStart(date)) {
			return
		}
		if habit.LastWeeklyCompletionDate != nil &&
			habits.WeekStart(*habit.LastWeeklyCompletionDate).Equal(habits.WeekStart(date)) {
			return
		}
	}

	day.PrevStreak = habit.CurrentStreak
	failedAt := s.now()
	day.FailedAt = &failedAt
	habit.CurrentStreak = 0
	// A failure ends the streak period; the next period starts with its
	// one-time exception grace available again.
	habit.ExceptionUsed = false
}

// awardPerfectWeek grants the weekly bonus on the week's last day when all
// seven days validated.
func (s *service) awardPerfectWeek(ctx context.Context, habit *GroupHabit, settled *GroupDay, date time.Time) error {
	if !habits.WeekEnd(date).Equal(habits.DayStart(date)) {
		return nil
	}
	if settled.Status != DayValidated && settled.Status != DayValidatedWithException {
		return nil
	}

	start := habits.WeekStart(date)
	keys := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		keys = append(keys, habits.DateKey(start.AddDate(0, 0, i)))
	}

	days, err := s.repo.GetWeekDays(ctx, habit.ID, keys)
	if err != nil {
		return err
	}
	if len(days) < 7 {
		return nil
	}
	for _, d := range days {
		if d.Status != DayValidated && d.Status != DayValidatedWithException {
			return nil
		}
	}

	total, err := s.repo.AddXP(ctx, habit.ID, XPPerfectWeekBonus)
	if err != nil {
		return err
	}
	if tier, crossed := TierCrossed(total-XPPerfectWeekBonus, total); crossed {
		s.emitTierUp(ctx, habit, tier, total)
	}
	return nil
}

func (s *service) ApplyStreakSaver(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*GroupDay, error) {
	habit, err := s.repo.FindByID(ctx, groupHabitID)
	if err != nil {
		return nil, err
	}
	if habit.SaversAvailable <= 0 {
		return nil, ErrNoSaverAvailable
	}

	day, err := s.repo.GetDay(ctx, habit.ID, habits.DateKey(date))
	if err != nil {
		return nil, err
	}
	if day.Status != DayFailed {
		return nil, ErrDayNotFailed
	}
	if day.FailedAt == nil || s.now().Sub(*day.FailedAt) > s.saverWindow {
		return nil, ErrSaverWindowClosed
	}

	day.Status = DayValidated
	day.SaverUsed = true
	day.Finalized = true

	// The saver undoes the failure wholesale: the streak comes back at its
	// pre-failure value and the exception grace is returned.
	habit.CurrentStreak = day.PrevStreak
	if habit.CurrentStreak > habit.LongestStreak {
		habit.LongestStreak = habit.CurrentStreak
	}
	habit.ExceptionUsed = false
	habit.SaversAvailable--

	if err := s.repo.UpsertDay(ctx, day); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, &events.GamificationEvent{
		EventType: events.EventGroupDayResolved,
		EntityID:  habit.ID,
		Timestamp: s.now().UTC(),
		Details: map[string]interface{}{
			"date_key":       day.DateKey,
			"status":         string(day.Status),
			"saver_used":     true,
			"current_streak": habit.CurrentStreak,
		},
	})

	return day, nil
}

func (s *service) FinalizeElapsedDays(ctx context.Context) (int64, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list group habits: %w", err)
	}

	yesterday := habits.DayStart(s.now()).AddDate(0, 0, -1)

	var settled int64
	for _, habit := range all {
		if habits.DayStart(habit.CreatedAt).After(yesterday) {
			continue
		}
		if _, err := s.FinalizeDay(ctx, habit.ID, yesterday); err != nil {
			s.logger.Error("failed to finalize group day",
				zap.String("group_habit_id", habit.ID.String()), zap.Error(err))
			continue
		}
		settled++
	}
	return settled, nil
}

func (s *service) GetDayStatus(ctx context.Context, groupHabitID uuid.UUID, date time.Time) (*DayStatusView, error) {
	habit, err := s.repo.FindByID(ctx, groupHabitID)
	if err != nil {
		return nil, err
	}

	dateKey := habits.DateKey(date)

	day, err := s.repo.GetDay(ctx, habit.ID, dateKey)
	if err == ErrDayNotFound {
		// No record yet: evaluate a live view without persisting.
		completions, err := s.repo.GetDayCompletions(ctx, habit.ID, dateKey)
		if err != nil {
			return nil, err
		}
		outcome := EvaluateDay(DaySnapshot{
			TotalMembers:      len(habit.Members),
			CompletingMembers: CompletingMembers(completions, habitTaskIDs(habit)),
			ExceptionUsed:     habit.ExceptionUsed,
			Elapsed:           s.dayElapsed(date),
			Threshold:         s.threshold,
		})
		return &DayStatusView{
			DateKey:        dateKey,
			Status:         outcome.Status,
			CompletionRate: outcome.CompletionRate,
			CurrentStreak:  habit.CurrentStreak,
			LongestStreak:  habit.LongestStreak,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &DayStatusView{
		DateKey:        day.DateKey,
		Status:         day.Status,
		CompletionRate: day.CompletionRate,
		SaverUsed:      day.SaverUsed,
		CurrentStreak:  habit.CurrentStreak,
		LongestStreak:  habit.LongestStreak,
	}, nil
}

func (s *service) GetTierStatus(ctx context.Context, groupHabitID uuid.UUID) (*TierStatus, error) {
	habit, err := s.repo.FindByID(ctx, groupHabitID)
	if err != nil {
		return nil, err
	}

	status := &TierStatus{
		XP:   habit.XP,
		Tier: GroupTierForXP(habit.XP),
	}
	for i, t := range GroupTiers {
		if t.Name == status.Tier.Name && i+1 < len(GroupTiers) {
			next := GroupTiers[i+1]
			status.NextTier = &next
			status.XPToNext = next.MinXP - habit.XP
		}
	}
	return status, nil
}

// dayElapsed reports whether the calendar day has fully passed.
func (s *service) dayElapsed(date time.Time) bool {
	return !s.now().Before(habits.DayStart(date).AddDate(0, 0, 1))
}

func findMember(habit *GroupHabit, memberID uuid.UUID) (*GroupMember, error) {
	for i := range habit.Members {
		if habit.Members[i].ID == memberID || habit.Members[i].UserID == memberID {
			return &habit.Members[i], nil
		}
	}
	return nil, ErrInvalidInput
}

func habitHasTask(habit *GroupHabit, taskID uuid.UUID) bool {
	for _, t := range habit.Tasks {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

func habitTaskIDs(habit *GroupHabit) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(habit.Tasks))
	for _, t := range habit.Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func (s *service) emitTierUp(ctx context.Context, habit *GroupHabit, tier GroupTier, totalXP int) {
	s.publishEvent(ctx, &events.GamificationEvent{
		EventType: events.EventGroupTierUp,
		EntityID:  habit.ID,
		Timestamp: s.now().UTC(),
		Details: map[string]interface{}{
			"tier":     tier.Name,
			"total_xp": totalXP,
		},
	})
}

func (s *service) publishInvalidate(ctx context.Context, userID, groupHabitID uuid.UUID, action string) {
	s.publishEvent(ctx, &events.GamificationEvent{
		EventType: events.EventCacheInvalidate,
		UserID:    userID,
		EntityID:  groupHabitID,
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
