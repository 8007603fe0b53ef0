package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnlockedMilestones(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		expected []int
	}{
		{"nothing unlocked below the first threshold", 2, nil},
		{"first threshold exactly", 3, []int{3}},
		{"mid ladder", 30, []int{3, 7, 14, 30}},
		{"full ladder", 365, []int{3, 7, 14, 30, 60, 100, 180, 365}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unlocked := UnlockedMilestones(tt.streak)
			days := make([]int, 0, len(unlocked))
			for _, m := range unlocked {
				days = append(days, m.Days)
			}
			if tt.expected == nil {
				assert.Empty(t, unlocked)
				return
			}
			assert.Equal(t, tt.expected, days)
		})
	}
}

func TestUnlockedMilestonesMonotonic(t *testing.T) {
	prev := 0
	for streak := 0; streak <= 400; streak++ {
		n := len(UnlockedMilestones(streak))
		assert.GreaterOrEqual(t, n, prev, "streak %d", streak)
		prev = n
	}
}

func TestNextMilestone(t *testing.T) {
	next := NextMilestone(0)
	assert.NotNil(t, next)
	assert.Equal(t, 3, next.Days)

	// Sitting exactly on a threshold points at the following rung.
	next = NextMilestone(7)
	assert.NotNil(t, next)
	assert.Equal(t, 14, next.Days)

	assert.Nil(t, NextMilestone(365))
	assert.Nil(t, NextMilestone(1000))
}

func TestDaysToNext(t *testing.T) {
	assert.Equal(t, 3, DaysToNext(0))
	assert.Equal(t, 1, DaysToNext(6))
	assert.Equal(t, 7, DaysToNext(7))
	// Ladder exhausted floors at zero.
	assert.Equal(t, 0, DaysToNext(365))
	assert.Equal(t, 0, DaysToNext(500))
}
