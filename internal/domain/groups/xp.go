package groups

// XP accrual rules for group habits.
const (
	// XPPerTask is awarded for every individual task completion.
	XPPerTask = 10
	// XPFullDayBonus is awarded once when a member's day becomes fully
	// completed.
	XPFullDayBonus = 50
	// XPPerfectWeekBonus is awarded once per week, on the week's last
	// day, when every day of that week validated.
	XPPerfectWeekBonus = 200
)

// GroupTier is an ascending [MinXP, next.MinXP) band over cumulative
// group XP.
type GroupTier struct {
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
}

// GroupTiers is the fixed group tier table, ascending by MinXP.
var GroupTiers = []GroupTier{
	{Name: "Wood", MinXP: 0},
	{Name: "Stone", MinXP: 500},
	{Name: "Iron", MinXP: 1500},
	{Name: "Diamond", MinXP: 4000},
	{Name: "Mythic", MinXP: 10000},
}

// GroupTierForXP returns the band containing xp. Negative xp clamps to
// the bottom band.
func GroupTierForXP(xp int) GroupTier {
	tier := GroupTiers[0]
	for _, t := range GroupTiers {
		if xp >= t.MinXP {
			tier = t
		}
	}
	return tier
}

// TierCrossed compares the tier before and after an XP change and reports
// the final tier when at least one threshold was crossed. One XP update
// that jumps several bands still yields a single tier-up signal carrying
// the final tier, never one signal per band.
func TierCrossed(prevXP, newXP int) (GroupTier, bool) {
	prev := GroupTierForXP(prevXP)
	next := GroupTierForXP(newXP)
	if next.MinXP > prev.MinXP {
		return next, true
	}
	return next, false
}
