package handlers

import (
	"github.com/Noxter68/habit-tracking-sub006/internal/api/dto"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/groups"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/quests"
)

// HabitToResponse converts a habit domain entity to its response DTO
func HabitToResponse(habit *habits.Habit) *dto.HabitResponse {
	tasks := make([]dto.TaskResponse, len(habit.Tasks))
	for i, t := range habit.Tasks {
		tasks[i] = dto.TaskResponse{
			ID:       t.ID,
			Name:     t.Name,
			Position: t.Position,
		}
	}

	return &dto.HabitResponse{
		ID:            habit.ID,
		UserID:        habit.UserID,
		Title:         habit.Title,
		Description:   habit.Description,
		Frequency:     string(habit.Frequency),
		CurrentStreak: habit.CurrentStreak,
		BestStreak:    habit.BestStreak,
		Tasks:         tasks,
		CreatedAt:     habit.CreatedAt,
		UpdatedAt:     habit.UpdatedAt,
	}
}

// StreakHistoryToResponse converts a streak history entry to its DTO
func StreakHistoryToResponse(h *habits.StreakHistory) *dto.StreakHistoryResponse {
	return &dto.StreakHistoryResponse{
		ID:            h.ID,
		HabitID:       h.HabitID,
		StartDate:     h.StartDate,
		EndDate:       h.EndDate,
		StreakLength:  h.StreakLength,
		CompletedDays: h.CompletedDays,
		CreatedAt:     h.CreatedAt,
	}
}

// HolidayToResponse converts a holiday period to its DTO
func HolidayToResponse(p *habits.HolidayPeriod) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:        p.ID,
		HabitID:   p.HabitID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Message:   p.Message,
	}
}

// GroupHabitToResponse converts a group habit to its DTO
func GroupHabitToResponse(habit *groups.GroupHabit) *dto.GroupHabitResponse {
	members := make([]dto.GroupMemberResponse, len(habit.Members))
	for i, m := range habit.Members {
		members[i] = dto.GroupMemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
		}
	}

	tasks := make([]dto.TaskResponse, len(habit.Tasks))
	for i, t := range habit.Tasks {
		tasks[i] = dto.TaskResponse{
			ID:       t.ID,
			Name:     t.Name,
			Position: t.Position,
		}
	}

	return &dto.GroupHabitResponse{
		ID:              habit.ID,
		GroupID:         habit.GroupID,
		Title:           habit.Title,
		Description:     habit.Description,
		Frequency:       string(habit.Frequency),
		CurrentStreak:   habit.CurrentStreak,
		LongestStreak:   habit.LongestStreak,
		ExceptionUsed:   habit.ExceptionUsed,
		XP:              habit.XP,
		SaversAvailable: habit.SaversAvailable,
		Members:         members,
		Tasks:           tasks,
		CreatedAt:       habit.CreatedAt,
	}
}

// QuestViewToResponse converts a quest view to its DTO
func QuestViewToResponse(view *quests.QuestView) *dto.QuestResponse {
	return &dto.QuestResponse{
		ID:          view.Quest.ID,
		UserID:      view.Quest.UserID,
		Title:       view.Quest.Title,
		Description: view.Quest.Description,
		Target:      view.Quest.Target,
		RewardType:  string(view.Quest.RewardType),
		RewardValue: view.Quest.RewardValue,
		RewardTitle: view.Quest.RewardTitle,
		Capped:      view.Progress.Capped,
		Percent:     view.Progress.Percent,
		Completed:   view.Completed,
		CompletedAt: view.CompletedAt,
		ExpiresAt:   view.Quest.ExpiresAt,
		CreatedAt:   view.Quest.CreatedAt,
	}
}
