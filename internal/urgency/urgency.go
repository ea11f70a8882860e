// Package urgency orders assignments by due date and bands them for
// display.
package urgency

import (
	"slices"
	"time"

	"termplan/internal/model"
)

const day = 24 * time.Hour

type Band string

const (
	BandHigh Band = "HIGH"
	BandMed  Band = "MED"
	BandLow  Band = "LOW"
)

// DaysUntilDue is the whole days from now until a is due, rounded up;
// negative when overdue.
func DaysUntilDue(a *model.Assignment, now time.Time) int {
	d := a.End.Sub(now)
	days := int(d / day)
	if d > 0 && d%day != 0 {
		days++
	}
	return days
}

// BandFor checks HIGH first: due within 5 days or overdue.
func BandFor(end, now time.Time) Band {
	switch {
	case now.After(end.Add(-5 * day)):
		return BandHigh
	case now.After(end.Add(-14 * day)):
		return BandMed
	default:
		return BandLow
	}
}

// Insert appends item and bubbles it left past neighbours that are due
// strictly later. Ties keep their existing order. list is not modified.
func Insert(list []*model.Assignment, item *model.Assignment) []*model.Assignment {
	out := make([]*model.Assignment, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, item)

	for i := len(out) - 1; i > 0 && item.End.Before(out[i-1].End); i-- {
		out[i], out[i-1] = out[i-1], out[i]
	}
	return out
}

// Remove drops item by identity. list is not modified.
func Remove(list []*model.Assignment, item *model.Assignment) []*model.Assignment {
	return slices.DeleteFunc(slices.Clone(list), func(a *model.Assignment) bool { return a == item })
}

// Entry is one queue row with its computed urgency.
type Entry struct {
	Assignment   *model.Assignment
	DaysUntilDue int
	Band         Band
}

// Queue owns the ordered list and the clock used to rank it.
type Queue struct {
	items []*model.Assignment
	now   func() time.Time
}

// NewQueue builds an empty queue. A nil clock means time.Now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now}
}

func (q *Queue) Insert(a *model.Assignment) {
	q.items = Insert(q.items, a)
}

func (q *Queue) Remove(a *model.Assignment) {
	q.items = Remove(q.items, a)
}

// Items is the current ordered snapshot.
func (q *Queue) Items() []*model.Assignment {
	return q.items
}

func (q *Queue) Len() int { return len(q.items) }

// Entries computes days and band per item at call time.
func (q *Queue) Entries() []Entry {
	now := q.now()
	out := make([]Entry, 0, len(q.items))
	for _, a := range q.items {
		out = append(out, Entry{
			Assignment:   a,
			DaysUntilDue: DaysUntilDue(a, now),
			Band:         BandFor(a.End, now),
		})
	}
	return out
}
