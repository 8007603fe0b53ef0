package habits

// Milestone is a one-time reward unlocked when the streak crosses a fixed
// day threshold. Milestones are identified stably by Days so the external
// celebration queue can diff old and new unlocked sets without re-firing a
// modal for an already-seen unlock.
type Milestone struct {
	Days     int    `json:"days"`
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
	Badge    string `json:"badge,omitempty"`
}

// Milestones is the fixed ladder, sorted ascending by Days. Unlocks are
// lifetime-cumulative: once a streak has ever reached a threshold the
// unlock persists, even if a later run never gets back there.
var Milestones = []Milestone{
	{Days: 3, Title: "First Spark", XPReward: 50},
	{Days: 7, Title: "One Week Strong", XPReward: 100, Badge: "week"},
	{Days: 14, Title: "Fortnight Focus", XPReward: 150},
	{Days: 30, Title: "Monthly Master", XPReward: 300, Badge: "month"},
	{Days: 60, Title: "Relentless", XPReward: 500},
	{Days: 100, Title: "Century Club", XPReward: 1000, Badge: "century"},
	{Days: 180, Title: "Half-Year Hero", XPReward: 1500},
	{Days: 365, Title: "Year of Fire", XPReward: 3000, Badge: "year"},
}

// UnlockedMilestones returns every milestone with Days <= streak, in
// ascending order. Monotonically non-decreasing in streak.
func UnlockedMilestones(streak int) []Milestone {
	var unlocked []Milestone
	for _, m := range Milestones {
		if m.Days <= streak {
			unlocked = append(unlocked, m)
		}
	}
	return unlocked
}

// NextMilestone returns the first milestone beyond streak, or nil when the
// ladder is exhausted.
func NextMilestone(streak int) *Milestone {
	for i := range Milestones {
		if Milestones[i].Days > streak {
			m := Milestones[i]
			return &m
		}
	}
	return nil
}

// DaysToNext returns how many streak days remain until the next milestone,
// floored at 0. Returns 0 when every milestone is unlocked.
func DaysToNext(streak int) int {
	next := NextMilestone(streak)
	if next == nil {
		return 0
	}
	remaining := next.Days - streak
	if remaining < 0 {
		return 0
	}
	return remaining
}
