package groups

import "github.com/google/uuid"

// DayStatus is the validation state of one group habit day. Pending is the
// only non-terminal state; a day settles into one of the other three once
// it has fully elapsed (or earlier, when every member completes).
type DayStatus string

const (
	DayPending                DayStatus = "pending"
	DayValidated              DayStatus = "validated"
	DayValidatedWithException DayStatus = "validated_with_exception"
	DayFailed                 DayStatus = "failed"
)

// DefaultExceptionThreshold is the completion rate from which a partial
// day can still be validated through the one-time exception grace.
const DefaultExceptionThreshold = 0.5

// DaySnapshot is the consistent, already-serialized view of one day's
// completions the engine evaluates. The persistence layer serializes
// concurrent member writes before building it; the engine never sees
// partial deltas.
type DaySnapshot struct {
	TotalMembers      int
	CompletingMembers int
	ExceptionUsed     bool
	Elapsed           bool
	Threshold         float64
}

// DayOutcome is the evaluated result for one day.
type DayOutcome struct {
	Status            DayStatus `json:"status"`
	CompletionRate    float64   `json:"completion_rate"`
	ExceptionConsumed bool      `json:"exception_consumed"`
}

// EvaluateDay runs the per-day state machine:
//
//	rate == 1.0                          -> validated (terminal, even mid-day)
//	day not yet elapsed                  -> pending
//	rate >= threshold, grace available   -> validated_with_exception (consumes grace)
//	otherwise                            -> failed
//
// A group with zero members has an undefined rate and settles as failed,
// never validated, so an empty group cannot accrue streak credit.
func EvaluateDay(snap DaySnapshot) DayOutcome {
	threshold := snap.Threshold
	if threshold == 0 {
		threshold = DefaultExceptionThreshold
	}

	if snap.TotalMembers == 0 {
		if snap.Elapsed {
			return DayOutcome{Status: DayFailed}
		}
		return DayOutcome{Status: DayPending}
	}

	rate := float64(snap.CompletingMembers) / float64(snap.TotalMembers)

	if rate >= 1.0 {
		return DayOutcome{Status: DayValidated, CompletionRate: rate}
	}
	if !snap.Elapsed {
		return DayOutcome{Status: DayPending, CompletionRate: rate}
	}
	if rate >= threshold && !snap.ExceptionUsed {
		return DayOutcome{
			Status:            DayValidatedWithException,
			CompletionRate:    rate,
			ExceptionConsumed: true,
		}
	}
	return DayOutcome{Status: DayFailed, CompletionRate: rate}
}

// CompletingMembers counts distinct members whose day is fully complete:
// every group task recorded when the habit has tasks, or any completion
// record at all when it has none.
func CompletingMembers(completions []GroupCompletion, taskIDs []uuid.UUID) int {
	byMember := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, c := range completions {
		if byMember[c.MemberID] == nil {
			byMember[c.MemberID] = make(map[uuid.UUID]bool)
		}
		if c.TaskID != nil {
			byMember[c.MemberID][*c.TaskID] = true
		}
	}

	count := 0
	for _, done := range byMember {
		if memberDayComplete(done, taskIDs) {
			count++
		}
	}
	return count
}

// memberDayComplete reports whether one member's completed-task set
// satisfies the group's task list.
func memberDayComplete(done map[uuid.UUID]bool, taskIDs []uuid.UUID) bool {
	if len(taskIDs) == 0 {
		return true
	}
	for _, id := range taskIDs {
		if !done[id] {
			return false
		}
	}
	return true
}
