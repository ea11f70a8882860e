// Package grid lays assignments out on a term's week-aligned day grid.
package grid

import (
	"time"

	"termplan/internal/model"
	"termplan/internal/schedule"
)

// Cell is the milestone an assignment has active on a day.
type Cell struct {
	Assignment *model.Assignment
	EventIndex int
	Event      model.MilestoneEvent
}

type Day struct {
	Index  int
	Date   time.Time
	InTerm bool
	Cells  []Cell
}

// Build returns DayGridSize days. A day shows an assignment when any part
// of [date, date+1d) overlaps it; the milestone is resolved at the later of
// the day's start and the assignment's start.
func Build(term model.Term, assignments []*model.Assignment) []Day {
	size := term.DayGridSize()
	days := make([]Day, 0, size)
	for i := 0; i < size; i++ {
		date := term.DateAtIndex(i)
		next := term.DateAtIndex(i + 1)
		d := Day{
			Index:  i,
			Date:   date,
			InTerm: i < term.LengthDays,
		}
		for _, a := range assignments {
			at := date
			if a.Start.After(at) {
				if !a.Start.Before(next) {
					continue
				}
				at = a.Start
			}
			idx := schedule.IndexForDate(a.Start, a.End, len(a.Events), at)
			if idx < 0 {
				continue
			}
			d.Cells = append(d.Cells, Cell{Assignment: a, EventIndex: idx, Event: a.Events[idx]})
		}
		days = append(days, d)
	}
	return days
}
