package quests

import "math"

// Progress is the display tuple derived from a raw counter and a target.
type Progress struct {
	Capped  int `json:"capped"`
	Percent int `json:"percent"`
}

// ComputeProgress caps the raw counter at the target and derives a
// rounded percentage clamped to 100. A non-positive target reads as
// already complete.
func ComputeProgress(raw, target int) Progress {
	if target <= 0 {
		return Progress{Capped: 0, Percent: 100}
	}
	if raw < 0 {
		raw = 0
	}

	capped := raw
	if capped > target {
		capped = target
	}

	percent := int(math.Round(100 * float64(raw) / float64(target)))
	if percent > 100 {
		percent = 100
	}

	return Progress{Capped: capped, Percent: percent}
}

// IsComplete reports whether the capped progress has reached the target.
func IsComplete(raw, target int) bool {
	return ComputeProgress(raw, target).Capped == target && target > 0
}
