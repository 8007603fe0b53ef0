package habits

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestHolidaySpanCovers(t *testing.T) {
	habitID := uuid.New()
	span := HolidaySpan{
		ID:      uuid.New(),
		HabitID: habitID,
		Start:   day(2024, 1, 11),
		End:     day(2024, 1, 12),
	}

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"day before start", day(2024, 1, 10), false},
		{"start day inclusive", day(2024, 1, 11), true},
		{"end day inclusive", day(2024, 1, 12), true},
		{"day after end", day(2024, 1, 13), false},
		{"clock time within end day still covered", time.Date(2024, 1, 12, 23, 30, 0, 0, time.Local), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InHoliday(tt.date, &span, habitID, nil))
		})
	}
}

func TestHolidaySpanInvertedRange(t *testing.T) {
	habitID := uuid.New()
	span := HolidaySpan{
		HabitID: habitID,
		Start:   day(2024, 1, 12),
		End:     day(2024, 1, 11),
	}

	// An inverted range matches nothing rather than everything.
	assert.False(t, InHoliday(day(2024, 1, 11), &span, habitID, nil))
	assert.False(t, InHoliday(day(2024, 1, 12), &span, habitID, nil))
}

func TestHolidaySpanScope(t *testing.T) {
	habitID := uuid.New()
	other := uuid.New()
	taskA := uuid.New()
	taskB := uuid.New()

	wholeHabit := HolidaySpan{HabitID: habitID, Start: day(2024, 1, 1), End: day(2024, 1, 5)}
	taskScoped := HolidaySpan{
		HabitID: habitID,
		Start:   day(2024, 1, 1),
		End:     day(2024, 1, 5),
		TaskIDs: []uuid.UUID{taskA},
	}

	date := day(2024, 1, 3)

	// Whole-habit spans exempt any task set.
	assert.True(t, InHoliday(date, &wholeHabit, habitID, nil))
	assert.True(t, InHoliday(date, &wholeHabit, habitID, []uuid.UUID{taskB}))

	// Task-scoped spans need an intersection.
	assert.True(t, InHoliday(date, &taskScoped, habitID, []uuid.UUID{taskA, taskB}))
	assert.False(t, InHoliday(date, &taskScoped, habitID, []uuid.UUID{taskB}))

	// A span never applies to another habit.
	assert.False(t, InHoliday(date, &wholeHabit, other, nil))
}

func TestActivePeriod(t *testing.T) {
	habitID := uuid.New()
	past := HolidaySpan{HabitID: habitID, Start: day(2024, 1, 1), End: day(2024, 1, 3)}
	current := HolidaySpan{HabitID: habitID, Start: day(2024, 1, 10), End: day(2024, 1, 15), Message: "ski trip"}
	spans := []HolidaySpan{past, current}

	active := ActivePeriod(day(2024, 1, 12), spans, habitID)
	assert.NotNil(t, active)
	assert.Equal(t, "ski trip", active.Message)

	assert.Nil(t, ActivePeriod(day(2024, 1, 5), spans, habitID))
	assert.Nil(t, ActivePeriod(day(2024, 1, 12), spans, uuid.New()))
}

func TestGetHolidayInfo(t *testing.T) {
	habitID := uuid.New()
	active := HolidaySpan{HabitID: habitID, Start: day(2024, 1, 10), End: day(2024, 1, 15), Message: "off"}

	info := GetHolidayInfo(day(2024, 1, 12), &active, habitID)
	assert.True(t, info.IsHoliday)
	assert.True(t, info.Active)
	assert.Equal(t, "off", info.Message)

	assert.Equal(t, HolidayInfo{}, GetHolidayInfo(day(2024, 1, 20), &active, habitID))
	assert.Equal(t, HolidayInfo{}, GetHolidayInfo(day(2024, 1, 12), nil, habitID))
}
