package habits

// Tier is an ordered band of streak lengths granting an XP multiplier.
// Bands are contiguous, non-overlapping, ascending by MinStreak.
type Tier struct {
	Name         string  `json:"name"`
	MinStreak    int     `json:"min_streak"`
	XPMultiplier float64 `json:"xp_multiplier"`
}

// Tiers is the fixed tier table. The thresholds line up with the streak
// milestone ladder so a milestone celebration and a tier-up land together.
var Tiers = []Tier{
	{Name: "Bronze", MinStreak: 0, XPMultiplier: 1.0},
	{Name: "Silver", MinStreak: 7, XPMultiplier: 1.25},
	{Name: "Gold", MinStreak: 30, XPMultiplier: 1.5},
	{Name: "Epic", MinStreak: 100, XPMultiplier: 2.0},
	{Name: "Legendary", MinStreak: 365, XPMultiplier: 3.0},
}

// TierProgress pairs the tier containing a streak with the clamped 0-100
// progress toward the next band.
type TierProgress struct {
	Tier            Tier    `json:"tier"`
	ProgressPercent float64 `json:"progress_percent"`
}

// TierForStreak finds the band whose [MinStreak, next.MinStreak) range
// contains streak. The top tier always reports 100 percent. Negative
// streaks clamp to the bottom band.
func TierForStreak(streak int) TierProgress {
	if streak < 0 {
		streak = 0
	}

	idx := 0
	for i, t := range Tiers {
		if streak >= t.MinStreak {
			idx = i
		}
	}

	tier := Tiers[idx]
	if idx == len(Tiers)-1 {
		return TierProgress{Tier: tier, ProgressPercent: 100}
	}

	next := Tiers[idx+1]
	percent := 100 * float64(streak-tier.MinStreak) / float64(next.MinStreak-tier.MinStreak)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return TierProgress{Tier: tier, ProgressPercent: percent}
}
