package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termplan/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTerm(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantDays int
		wantGrid int
	}{
		{"exact weeks", date(2025, 2, 24), date(2025, 6, 2), 98, 98},
		{"partial week", date(2025, 1, 1), date(2025, 1, 9), 8, 14},
		{"partial day rounds up", date(2025, 1, 1), date(2025, 1, 3).Add(6 * time.Hour), 3, 7},
		{"single day", date(2025, 1, 1), date(2025, 1, 2), 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := model.NewTerm(tt.start, tt.end, "S1")
			assert.Equal(t, tt.wantDays, term.LengthDays)
			assert.Equal(t, tt.wantGrid, term.DayGridSize())
			assert.Zero(t, term.DayGridSize()%7)
			assert.GreaterOrEqual(t, term.DayGridSize(), term.LengthDays)
		})
	}
}

func TestTermDateAtIndex(t *testing.T) {
	term := model.NewTerm(date(2025, 1, 30), date(2025, 3, 1), "")
	assert.Equal(t, date(2025, 1, 30), term.DateAtIndex(0))
	assert.Equal(t, date(2025, 2, 1), term.DateAtIndex(2))
	assert.Equal(t, date(2025, 3, 2), term.DateAtIndex(31))
}

func TestTermIndexOf(t *testing.T) {
	term := model.NewTerm(date(2025, 1, 1), date(2025, 1, 9), "")
	assert.Equal(t, 0, term.IndexOf(date(2025, 1, 1).Add(3*time.Hour)))
	assert.Equal(t, 4, term.IndexOf(date(2025, 1, 5)))
	assert.Equal(t, 13, term.IndexOf(date(2025, 1, 14).Add(23*time.Hour)))
	assert.Equal(t, -1, term.IndexOf(date(2024, 12, 31)))
	assert.Equal(t, -1, term.IndexOf(date(2025, 1, 15)))

	assert.True(t, term.Contains(date(2025, 1, 9)))
	assert.False(t, term.Contains(date(2025, 1, 10)))
}

func TestTermWeekRows(t *testing.T) {
	term := model.NewTerm(date(2025, 1, 1), date(2025, 1, 20), "")
	rows, err := term.WeekRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Equal(date(2025, 1, 1)))
	assert.True(t, rows[1].Equal(date(2025, 1, 8)))
	assert.True(t, rows[2].Equal(date(2025, 1, 15)))
}
