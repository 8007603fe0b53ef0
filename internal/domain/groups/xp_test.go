package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupTierForXP(t *testing.T) {
	tests := []struct {
		name     string
		xp       int
		expected string
	}{
		{"zero xp is wood", 0, "Wood"},
		{"just under stone", 499, "Wood"},
		{"stone threshold", 500, "Stone"},
		{"iron threshold", 1500, "Iron"},
		{"diamond threshold", 4000, "Diamond"},
		{"mythic threshold", 10000, "Mythic"},
		{"far beyond the table", 50000, "Mythic"},
		{"negative xp clamps to wood", -10, "Wood"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GroupTierForXP(tt.xp).Name)
		})
	}
}

func TestTierCrossed(t *testing.T) {
	t.Run("crossing one threshold", func(t *testing.T) {
		tier, crossed := TierCrossed(450, 520)
		assert.True(t, crossed)
		assert.Equal(t, "Stone", tier.Name)
	})

	t.Run("jumping several bands yields one signal with the final tier", func(t *testing.T) {
		tier, crossed := TierCrossed(400, 5000)
		assert.True(t, crossed)
		assert.Equal(t, "Diamond", tier.Name)
	})

	t.Run("moving within a band", func(t *testing.T) {
		tier, crossed := TierCrossed(600, 900)
		assert.False(t, crossed)
		assert.Equal(t, "Stone", tier.Name)
	})

	t.Run("landing exactly on a threshold", func(t *testing.T) {
		tier, crossed := TierCrossed(499, 500)
		assert.True(t, crossed)
		assert.Equal(t, "Stone", tier.Name)
	})

	t.Run("xp never decreases but a drop would not signal", func(t *testing.T) {
		_, crossed := TierCrossed(1600, 900)
		assert.False(t, crossed)
	})
}
