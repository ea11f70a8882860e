package model

import (
	"time"

	"github.com/teambition/rrule-go"
)

const day = 24 * time.Hour

// Term is an academic date range that assignments are plotted against.
type Term struct {
	Start      time.Time
	End        time.Time
	LengthDays int
	Detail     string
}

// NewTerm derives LengthDays from the span; a trailing partial day counts
// as a whole one. Inputs are assumed valid (end after start).
func NewTerm(start, end time.Time, detail string) Term {
	span := end.Sub(start)
	days := int(span / day)
	if span%day != 0 {
		days++
	}
	return Term{
		Start:      start,
		End:        end,
		LengthDays: days,
		Detail:     detail,
	}
}

// DayGridSize rounds LengthDays up to whole weeks.
func (t Term) DayGridSize() int {
	return (t.LengthDays + 6) / 7 * 7
}

func (t Term) DateAtIndex(i int) time.Time {
	return t.Start.AddDate(0, 0, i)
}

// Contains reports whether ts falls within [Start, End].
func (t Term) Contains(ts time.Time) bool {
	return !ts.Before(t.Start) && !ts.After(t.End)
}

// IndexOf returns the grid index of the day containing ts, or -1 when ts
// is outside the grid.
func (t Term) IndexOf(ts time.Time) int {
	if ts.Before(t.Start) {
		return -1
	}
	for i := 0; i < t.DayGridSize(); i++ {
		if ts.Before(t.DateAtIndex(i + 1)) {
			return i
		}
	}
	return -1
}

// WeekRows returns the first date of every week row in the grid.
func (t Term) WeekRows() ([]time.Time, error) {
	weeks := t.DayGridSize() / 7
	if weeks == 0 {
		return nil, nil
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: t.Start,
		Count:   weeks,
	})
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}
