// Package schedule splits an assignment's span into milestone windows and
// answers which window covers a given moment.
//
// Both directions share boundary, so a date always resolves to the window
// that was generated for it. The split is equal-width; template effort
// weights are display-only.
package schedule

import (
	"math/bits"
	"strings"
	"time"

	"termplan/internal/model"
)

// NoInstructions is the description of a milestone without instructions.
const NoInstructions = "None"

// Options tunes generated events.
type Options struct {
	// TZID is stamped on every generated event.
	TZID string
}

// boundary returns the offset of window i out of n over span, rounded up
// to the nanosecond. boundary(0) == 0 and boundary(n) == span. The product
// span*i is taken in 128 bits; a year in nanoseconds times a few hundred
// windows already overflows int64.
func boundary(span time.Duration, i, n int) time.Duration {
	if span <= 0 || i <= 0 {
		return 0
	}
	q, rem := mulDiv(uint64(span), uint64(i), uint64(n))
	if rem != 0 {
		q++
	}
	return time.Duration(q)
}

// mulDiv returns a*b/c and its remainder. The quotient must fit in 64 bits.
func mulDiv(a, b, c uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	return bits.Div64(hi, lo, c)
}

// Milestones creates one event per template milestone. A template with no
// milestones yields no events.
func Milestones(tpl model.MilestoneTemplate, start, end time.Time, opts Options) []model.MilestoneEvent {
	n := len(tpl.Milestones)
	if n == 0 {
		return []model.MilestoneEvent{}
	}

	span := end.Sub(start)
	events := make([]model.MilestoneEvent, 0, n)
	for i, m := range tpl.Milestones {
		desc := NoInstructions
		if len(m.Instructions) > 0 {
			desc = strings.Join(m.Instructions, ";")
		}
		events = append(events, model.MilestoneEvent{
			Summary:     m.Name,
			Description: desc,
			Status:      model.StatusNone,
			Start:       start.Add(boundary(span, i, n)),
			End:         start.Add(boundary(span, i+1, n)),
			TZID:        opts.TZID,
		})
	}
	return events
}

// IndexForDate returns the window index of d for an assignment with n
// events, or -1 when d is outside [start, end] or n is zero.
func IndexForDate(start, end time.Time, n int, d time.Time) int {
	if n == 0 || d.Before(start) || d.After(end) {
		return -1
	}
	span := end.Sub(start)
	if span <= 0 {
		return n - 1
	}
	off := d.Sub(start)
	// Smallest i with boundary(i+1) > off, i.e. floor(off*n/span).
	q, _ := mulDiv(uint64(off), uint64(n), uint64(span))
	idx := int(q)
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// EventForDate returns the milestone active on d.
func EventForDate(a *model.Assignment, d time.Time) (model.MilestoneEvent, bool) {
	if a == nil {
		return model.MilestoneEvent{}, false
	}
	idx := IndexForDate(a.Start, a.End, len(a.Events), d)
	if idx < 0 {
		return model.MilestoneEvent{}, false
	}
	return a.Events[idx], true
}
