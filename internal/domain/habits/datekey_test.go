package habits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "midnight",
			input:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local),
			expected: "2024-01-05",
		},
		{
			name:     "just before midnight stays on the same day",
			input:    time.Date(2024, 1, 5, 23, 59, 59, 0, time.Local),
			expected: "2024-01-05",
		},
		{
			name:     "single digit month and day are zero padded",
			input:    time.Date(2024, 3, 7, 12, 0, 0, 0, time.Local),
			expected: "2024-03-07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateKey(tt.input))
		})
	}
}

func TestParseDateKey(t *testing.T) {
	parsed, err := ParseDateKey("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-29", DateKey(parsed))

	_, err = ParseDateKey("2024-13-01")
	assert.Error(t, err)

	_, err = ParseDateKey("02/05/2024")
	assert.Error(t, err)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "monday maps to itself",
			input:    time.Date(2024, 2, 5, 15, 30, 0, 0, time.Local),
			expected: "2024-02-05",
		},
		{
			name:     "wednesday maps back to monday",
			input:    time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local),
			expected: "2024-02-05",
		},
		{
			name:     "sunday maps to the previous monday",
			input:    time.Date(2024, 2, 11, 23, 0, 0, 0, time.Local),
			expected: "2024-02-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateKey(WeekStart(tt.input)))
		})
	}
}

func TestWeekEnd(t *testing.T) {
	// Week end is always the Sunday of the same Monday-start week.
	wednesday := time.Date(2024, 2, 7, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-02-11", DateKey(WeekEnd(wednesday)))

	sunday := time.Date(2024, 2, 11, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-02-11", DateKey(WeekEnd(sunday)))
}

func TestIsPastDay(t *testing.T) {
	today := time.Date(2024, 1, 12, 14, 0, 0, 0, time.Local)

	assert.True(t, IsPastDay(time.Date(2024, 1, 11, 23, 59, 0, 0, time.Local), today))
	// Same calendar day is not past regardless of clock time.
	assert.False(t, IsPastDay(time.Date(2024, 1, 12, 0, 0, 1, 0, time.Local), today))
	assert.False(t, IsPastDay(time.Date(2024, 1, 13, 0, 0, 0, 0, time.Local), today))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 12, 0, 0, 0, 0, time.Local)
	b := time.Date(2024, 1, 12, 23, 59, 59, 0, time.Local)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}
