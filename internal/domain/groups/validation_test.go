package groups

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateDay(t *testing.T) {
	tests := []struct {
		name     string
		snap     DaySnapshot
		expected DayOutcome
	}{
		{
			name: "everyone done validates even mid-day",
			snap: DaySnapshot{TotalMembers: 4, CompletingMembers: 4, Elapsed: false},
			expected: DayOutcome{
				Status:         DayValidated,
				CompletionRate: 1.0,
			},
		},
		{
			name:     "partial day still pending while open",
			snap:     DaySnapshot{TotalMembers: 4, CompletingMembers: 2, Elapsed: false},
			expected: DayOutcome{Status: DayPending, CompletionRate: 0.5},
		},
		{
			name: "two of four elapsed with grace available",
			snap: DaySnapshot{TotalMembers: 4, CompletingMembers: 2, Elapsed: true},
			expected: DayOutcome{
				Status:            DayValidatedWithException,
				CompletionRate:    0.5,
				ExceptionConsumed: true,
			},
		},
		{
			name: "two of four elapsed with grace already spent",
			snap: DaySnapshot{TotalMembers: 4, CompletingMembers: 2, Elapsed: true, ExceptionUsed: true},
			expected: DayOutcome{
				Status:         DayFailed,
				CompletionRate: 0.5,
			},
		},
		{
			name: "below threshold fails regardless of grace",
			snap: DaySnapshot{TotalMembers: 4, CompletingMembers: 1, Elapsed: true},
			expected: DayOutcome{
				Status:         DayFailed,
				CompletionRate: 0.25,
			},
		},
		{
			name: "custom threshold admits a lower rate",
			snap: DaySnapshot{TotalMembers: 4, CompletingMembers: 1, Elapsed: true, Threshold: 0.25},
			expected: DayOutcome{
				Status:            DayValidatedWithException,
				CompletionRate:    0.25,
				ExceptionConsumed: true,
			},
		},
		{
			name:     "empty group pending while open",
			snap:     DaySnapshot{TotalMembers: 0, Elapsed: false},
			expected: DayOutcome{Status: DayPending},
		},
		{
			name:     "empty group fails once elapsed",
			snap:     DaySnapshot{TotalMembers: 0, Elapsed: true},
			expected: DayOutcome{Status: DayFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateDay(tt.snap))
		})
	}
}

func TestCompletingMembers(t *testing.T) {
	memberA := uuid.New()
	memberB := uuid.New()
	taskX := uuid.New()
	taskY := uuid.New()

	ref := func(id uuid.UUID) *uuid.UUID { return &id }

	t.Run("member counts only with every task recorded", func(t *testing.T) {
		completions := []GroupCompletion{
			{MemberID: memberA, TaskID: ref(taskX)},
			{MemberID: memberA, TaskID: ref(taskY)},
			{MemberID: memberB, TaskID: ref(taskX)},
		}
		assert.Equal(t, 1, CompletingMembers(completions, []uuid.UUID{taskX, taskY}))
	})

	t.Run("duplicate records do not double count", func(t *testing.T) {
		completions := []GroupCompletion{
			{MemberID: memberA, TaskID: ref(taskX)},
			{MemberID: memberA, TaskID: ref(taskX)},
			{MemberID: memberA, TaskID: ref(taskY)},
		}
		assert.Equal(t, 1, CompletingMembers(completions, []uuid.UUID{taskX, taskY}))
	})

	t.Run("task-less habit counts any record", func(t *testing.T) {
		completions := []GroupCompletion{
			{MemberID: memberA},
			{MemberID: memberB},
		}
		assert.Equal(t, 2, CompletingMembers(completions, nil))
	})

	t.Run("no completions", func(t *testing.T) {
		assert.Equal(t, 0, CompletingMembers(nil, []uuid.UUID{taskX}))
	})
}
