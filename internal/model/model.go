package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrReversedRange is returned when an assignment ends before it starts.
var ErrReversedRange = errors.New("assignment end is before start")

// Status is the iCalendar STATUS of a milestone event. The empty value
// means "no status".
type Status string

const (
	StatusNone      Status = ""
	StatusTentative Status = "TENTATIVE"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus returns the recognized status for s, or StatusNone.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusTentative, StatusConfirmed, StatusCancelled:
		return Status(s)
	default:
		return StatusNone
	}
}

// Valid reports whether s is one of the three recognized values.
func (s Status) Valid() bool {
	return ParseStatus(string(s)) != StatusNone
}

// MilestoneEvent is one time-boxed step of an assignment. Empty strings
// stand for absent values (no UID, no description, unknown timezone).
type MilestoneEvent struct {
	UID         string
	Summary     string
	Description string
	Status      Status

	Start time.Time
	End   time.Time

	// TZID is the original timezone name of the event, if known.
	TZID string
}

// Assignment is one tracked piece of coursework. Instances are replaced
// wholesale on edit, never patched in place; store and queue compare them
// by pointer identity.
type Assignment struct {
	Name             string
	UnitCode         string
	Color            string
	Start            time.Time
	End              time.Time
	AssignmentTypeID string
	Events           []MilestoneEvent
}

// NewAssignment builds an assignment and rejects reversed ranges.
func NewAssignment(name, unitCode, color, typeID string, start, end time.Time, events []MilestoneEvent) (*Assignment, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrReversedRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return &Assignment{
		Name:             name,
		UnitCode:         unitCode,
		Color:            color,
		Start:            start,
		End:              end,
		AssignmentTypeID: typeID,
		Events:           events,
	}, nil
}

// Clone returns a deep copy with its own event slice.
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	c := *a
	c.Events = append([]MilestoneEvent(nil), a.Events...)
	return &c
}

// IconKey names an icon in an external lookup table. The core never
// resolves it.
type IconKey string

// TemplateMilestone is one step of a MilestoneTemplate.
type TemplateMilestone struct {
	Name string
	// EffortPercent is shown to the student but does not weight the
	// schedule. Nil when the catalog omits it.
	EffortPercent *float64
	Instructions  []string
	Resources     []string
}

// EffortText renders the effort hint, or "" when no weight is declared.
func (m TemplateMilestone) EffortText() string {
	if m.EffortPercent == nil {
		return ""
	}
	return fmt.Sprintf("Allocate %g%% of your effort", *m.EffortPercent)
}

// MilestoneTemplate is a named, ordered list of milestones supplied by the
// assignment-type catalog. Read-only to the core.
type MilestoneTemplate struct {
	ID          string
	DisplayName string
	Icon        IconKey
	Milestones  []TemplateMilestone
}
