package scheduler

import (
	"context"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/domain/groups"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/Noxter68/habit-tracking-sub006/pkg/logger"
	"go.uber.org/zap"
)

type Scheduler struct {
	habitService habits.Service
	groupService groups.Service
	logger       *logger.Logger
}

func NewScheduler(habitService habits.Service, groupService groups.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		habitService: habitService,
		groupService: groupService,
		logger:       logger,
	}
}

func (s *Scheduler) Start() {
	// Run immediately at startup to catch up after downtime
	s.runMidnightTasks()

	// Calculate time until next midnight
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Gamification scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	// Start the scheduler
	go func() {
		// Wait until first midnight
		time.Sleep(timeUntilMidnight)

		// Then run every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.runMidnightTasks()
		}
	}()
}

func (s *Scheduler) runMidnightTasks() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting midnight gamification tasks", zap.Time("start_time", startTime))

	// Replay streaks so habits that missed yesterday reset, with history
	// logged for broken runs
	resetCount, err := s.habitService.RecomputeBrokenStreaks(ctx)
	if err != nil {
		s.logger.Error("Failed to recompute broken streaks",
			zap.Error(err),
		)
	} else {
		s.logger.Info("Successfully recomputed streaks",
			zap.Int64("reset_count", resetCount),
		)
	}

	// Settle yesterday for every group habit still pending
	settledCount, err := s.groupService.FinalizeElapsedDays(ctx)
	if err != nil {
		s.logger.Error("Failed to finalize group days",
			zap.Error(err),
		)
	} else {
		s.logger.Info("Successfully finalized group days",
			zap.Int64("settled_count", settledCount),
		)
	}

	s.logger.Info("Completed midnight gamification tasks",
		zap.Time("end_time", time.Now()),
		zap.Duration("duration", time.Since(startTime)),
	)
}
