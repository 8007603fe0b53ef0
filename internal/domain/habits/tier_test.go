package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForStreak(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		expected string
	}{
		{"zero streak is bronze", 0, "Bronze"},
		{"last day of bronze", 6, "Bronze"},
		{"silver threshold", 7, "Silver"},
		{"last day of silver", 29, "Silver"},
		{"gold threshold", 30, "Gold"},
		{"epic threshold", 100, "Epic"},
		{"legendary threshold", 365, "Legendary"},
		{"beyond the top band", 1000, "Legendary"},
		{"negative streak clamps to bronze", -3, "Bronze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TierForStreak(tt.streak).Tier.Name)
		})
	}
}

func TestTierProgressPercent(t *testing.T) {
	// Halfway through bronze toward silver.
	p := TierForStreak(3)
	assert.Equal(t, "Bronze", p.Tier.Name)
	assert.InDelta(t, 100.0*3/7, p.ProgressPercent, 0.001)

	// Entering a band starts at zero.
	assert.InDelta(t, 0, TierForStreak(7).ProgressPercent, 0.001)

	// Top band always reports full progress.
	assert.InDelta(t, 100, TierForStreak(365).ProgressPercent, 0.001)
	assert.InDelta(t, 100, TierForStreak(9999).ProgressPercent, 0.001)
}

func TestTierTableShape(t *testing.T) {
	// Thresholds must be ascending so band lookup stays a simple scan.
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].MinStreak, Tiers[i-1].MinStreak)
		assert.GreaterOrEqual(t, Tiers[i].XPMultiplier, Tiers[i-1].XPMultiplier)
	}
	assert.Equal(t, 0, Tiers[0].MinStreak)
}
